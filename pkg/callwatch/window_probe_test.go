package callwatch

import (
	"fmt"
	"testing"
)

func fakeExecutor(answers map[string]string) func(name string, args ...string) ([]byte, error) {
	return func(name string, args ...string) ([]byte, error) {
		if name != "xdotool" {
			return nil, fmt.Errorf("unexpected command %q", name)
		}
		query := args[len(args)-1]
		answer, ok := answers[query]
		if !ok {
			return nil, fmt.Errorf("no answer for %q", query)
		}
		return []byte(answer + "\n"), nil
	}
}

func TestXWindowProbe_ForegroundApp(t *testing.T) {
	p := &XWindowProbe{cmdExecutor: fakeExecutor(map[string]string{
		"getwindowclassname": "Firefox",
	})}

	app, ok := p.ForegroundApp()
	if !ok || app != "firefox" {
		t.Errorf("ForegroundApp() = %q, %v; want %q, true", app, ok, "firefox")
	}
}

func TestXWindowProbe_ForegroundAppUnavailable(t *testing.T) {
	p := &XWindowProbe{cmdExecutor: fakeExecutor(nil)}

	if _, ok := p.ForegroundApp(); ok {
		t.Error("ForegroundApp() should report not-ok when xdotool fails")
	}
}

func TestXWindowProbe_ActiveBrowserTabHost(t *testing.T) {
	tests := []struct {
		name     string
		class    string
		title    string
		wantHost string
		wantOK   bool
	}{
		{
			name:     "meeting tab title carries the host",
			class:    "firefox",
			title:    "Weekly sync - meet.google.com - Mozilla Firefox",
			wantHost: "meet.google.com",
			wantOK:   true,
		},
		{
			name:   "title without a host",
			class:  "firefox",
			title:  "New Tab",
			wantOK: false,
		},
		{
			name:   "different app focused",
			class:  "Gnome-terminal",
			title:  "bash - meet.google.com notes",
			wantOK: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := &XWindowProbe{cmdExecutor: fakeExecutor(map[string]string{
				"getwindowclassname": tt.class,
				"getwindowname":      tt.title,
			})}

			host, ok := p.ActiveBrowserTabHost("firefox")
			if ok != tt.wantOK || host != tt.wantHost {
				t.Errorf("ActiveBrowserTabHost() = %q, %v; want %q, %v",
					host, ok, tt.wantHost, tt.wantOK)
			}
		})
	}
}
