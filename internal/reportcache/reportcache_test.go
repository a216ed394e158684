// Copyright 2025 Esteban Alvarez. All Rights Reserved.
//
// Created: October 2025
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package reportcache

import (
	"context"
	"testing"
)

func TestKeyIsStableAndSensitiveToIdentity(t *testing.T) {
	a := Key("/var/log/app.json", 1000, 5000)
	b := Key("/var/log/app.json", 1000, 5000)
	if a != b {
		t.Fatalf("Key is not deterministic: %s vs %s", a, b)
	}

	if c := Key("/var/log/app.json", 1001, 5000); c == a {
		t.Fatalf("Key did not change when size changed")
	}
	if c := Key("/var/log/other.json", 1000, 5000); c == a {
		t.Fatalf("Key did not change when path changed")
	}
}

func TestMemCacheRoundTrip(t *testing.T) {
	ctx := context.Background()
	c := NewMemCache()

	if _, hit, err := c.Get(ctx, "missing"); err != nil || hit {
		t.Fatalf("expected a clean miss, got hit=%v err=%v", hit, err)
	}

	if err := c.Set(ctx, "k", []byte("v")); err != nil {
		t.Fatalf("Set: %v", err)
	}
	v, hit, err := c.Get(ctx, "k")
	if err != nil || !hit || string(v) != "v" {
		t.Fatalf("Get after Set = %q, %v, %v", v, hit, err)
	}
}

func TestBuildUnknownAdapterErrors(t *testing.T) {
	if _, err := Build("bogus", ""); err == nil {
		t.Fatalf("expected an error for an unknown adapter")
	}
}

func TestBuildRedisRequiresAddr(t *testing.T) {
	if _, err := Build("redis", ""); err == nil {
		t.Fatalf("expected an error when redis adapter has no address")
	}
}

func TestBuildDefaultsToMem(t *testing.T) {
	c, err := Build("", "")
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if _, ok := c.(*memCache); !ok {
		t.Fatalf("Build(\"\", \"\") returned %T, want *memCache", c)
	}
}
