// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package storage

import "testing"

func TestNewUnconfigured(t *testing.T) {
	tests := []struct {
		name                               string
		endpoint, access, secret, bucket string
	}{
		{"no endpoint", "", "ak", "sk", "b"},
		{"no access key", "http://localhost:9000", "", "sk", "b"},
		{"no secret key", "http://localhost:9000", "ak", "", "b"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, err := New(tt.endpoint, "us-east-1", tt.access, tt.secret, tt.bucket)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if c != nil {
				t.Error("expected nil client when storage is unconfigured")
			}
		})
	}
}

func TestNewRequiresBucket(t *testing.T) {
	if _, err := New("http://localhost:9000", "us-east-1", "ak", "sk", ""); err == nil {
		t.Error("expected error for empty bucket")
	}
}

func TestNewConfigured(t *testing.T) {
	c, err := New("http://localhost:9000/", "us-east-1", "ak", "sk", "personalhub-backups")
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if c == nil {
		t.Fatal("expected a client")
	}
	if c.Bucket() != "personalhub-backups" {
		t.Errorf("bucket: got %q", c.Bucket())
	}
	want := "http://localhost:9000/personalhub-backups/backups/x.json"
	if got := c.ObjectURL("backups/x.json"); got != want {
		t.Errorf("ObjectURL: got %q, want %q", got, want)
	}
}
