// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package models

import (
	"testing"

	"github.com/google/uuid"
)

func TestSiteIconURL(t *testing.T) {
	custom := "https://cdn.example.com/icon.png"
	empty := ""

	tests := []struct {
		name string
		site Site
		want string
	}{
		{
			name: "explicit icon wins",
			site: Site{URL: "https://github.com", Icon: &custom},
			want: custom,
		},
		{
			name: "empty icon falls back to favicon",
			site: Site{URL: "https://github.com/golang/go", Icon: &empty},
			want: "https://www.google.com/s2/favicons?domain=github.com&sz=64",
		},
		{
			name: "nil icon falls back to favicon",
			site: Site{URL: "http://news.ycombinator.com:8080/item"},
			want: "https://www.google.com/s2/favicons?domain=news.ycombinator.com&sz=64",
		},
		{
			name: "unparseable url",
			site: Site{URL: "::not a url"},
			want: DefaultIcon,
		},
		{
			name: "relative url has no host",
			site: Site{URL: "/local/path"},
			want: DefaultIcon,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.site.IconURL(); got != tt.want {
				t.Errorf("IconURL() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestSiteHasTag(t *testing.T) {
	id := uuid.New()
	other := uuid.New()

	s := Site{TagID: &id}
	if !s.HasTag(id) {
		t.Error("expected HasTag to match its own tag")
	}
	if s.HasTag(other) {
		t.Error("expected HasTag to reject a different tag")
	}

	untagged := Site{}
	if untagged.HasTag(id) {
		t.Error("untagged site should not match any tag")
	}
}

func TestSetPosition(t *testing.T) {
	var c Category
	c.SetPosition(3)
	if c.Position == nil || *c.Position != 3 {
		t.Errorf("category position: got %v, want 3", c.Position)
	}

	var tag Tag
	tag.SetPosition(0)
	if tag.Position == nil || *tag.Position != 0 {
		t.Errorf("tag position: got %v, want 0", tag.Position)
	}
}
