package main

import (
	"testing"

	"github.com/1broseidon/tilewm/internal/config"
	"github.com/1broseidon/tilewm/internal/geom"
	"github.com/1broseidon/tilewm/internal/wm"
)

func TestParseHeads(t *testing.T) {
	tests := []struct {
		spec    string
		want    []geom.Rect
		wantErr bool
	}{
		{spec: "1920x1080", want: []geom.Rect{{Width: 1920, Height: 1080}}},
		{spec: "1920x1080,1280x1024", want: []geom.Rect{
			{Width: 1920, Height: 1080},
			{X: 1920, Width: 1280, Height: 1024},
		}},
		{spec: "1280x1024+0+56, 1920x1080+1280+0", want: []geom.Rect{
			{Y: 56, Width: 1280, Height: 1024},
			{X: 1280, Width: 1920, Height: 1080},
		}},
		{spec: "", wantErr: true},
		{spec: "1920", wantErr: true},
		{spec: "0x1080", wantErr: true},
		{spec: "1920x1080+10", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.spec, func(t *testing.T) {
			got, err := parseHeads(tt.spec)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("parseHeads(%q) = %v, want error", tt.spec, got)
				}
				return
			}
			if err != nil {
				t.Fatalf("parseHeads(%q): %v", tt.spec, err)
			}
			if len(got) != len(tt.want) {
				t.Fatalf("parseHeads(%q) = %v, want %v", tt.spec, got, tt.want)
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Fatalf("head %d = %v, want %v", i, got[i], tt.want[i])
				}
			}
		})
	}
}

func TestParseWindowID(t *testing.T) {
	tests := []struct {
		in      string
		want    uint32
		wantErr bool
	}{
		{"", 0, false},
		{"42", 42, false},
		{"0x1c00007", 0x1c00007, false},
		{"window", 0, true},
	}
	for _, tt := range tests {
		got, err := parseWindowID(tt.in)
		if (err != nil) != tt.wantErr || got != tt.want {
			t.Errorf("parseWindowID(%q) = %d, %v", tt.in, got, err)
		}
	}
}

func TestWindowState(t *testing.T) {
	if got := windowState(wm.WindowInfo{}); got != "-" {
		t.Errorf("plain window state = %q", got)
	}
	got := windowState(wm.WindowInfo{Focused: true, Maximized: "left|vertical", Shaded: true})
	if got != "focused,max:left|vertical,shaded" {
		t.Errorf("state = %q", got)
	}
}

func TestFormatSource(t *testing.T) {
	tests := []struct {
		src  config.Source
		want string
	}{
		{config.Source{Kind: config.SourceDefault}, "defaults"},
		{config.Source{Kind: config.SourceFile, File: "/etc/tilewm.yaml", Line: 3, Column: 5}, "/etc/tilewm.yaml:3:5"},
		{config.Source{Kind: config.SourceFile, File: "/etc/tilewm.yaml"}, "/etc/tilewm.yaml"},
	}
	for _, tt := range tests {
		if got := formatSource(tt.src); got != tt.want {
			t.Errorf("formatSource(%+v) = %q, want %q", tt.src, got, tt.want)
		}
	}
}
