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

// Command sparkmap analyzes a single completed event log and prints a
// bottleneck report. It is a thin demonstration binary wired directly to
// the library; it does not implement doctor/diff subcommands or
// HTML/Markdown rendering.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"math/rand"
	"net/http"
	"os"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"

	sparkmap "github.com/gabevayner/spark-map"
	"github.com/gabevayner/spark-map/internal/detect"
	"github.com/gabevayner/spark-map/internal/obslog"
	"github.com/gabevayner/spark-map/internal/reportcache"
	"github.com/gabevayner/spark-map/internal/telemetry"
)

func main() {
	eventLog := flag.String("event-log", "", "path to the event log to analyze (required)")
	thresholdsPath := flag.String("thresholds", "", "optional path to a JSON ThresholdConfig override")
	asJSON := flag.Bool("json", false, "print the report as JSON instead of a text summary")
	metricsAddr := flag.String("metrics-addr", "", "optional address to serve Prometheus /metrics on, e.g. :9090")
	cacheRedisAddr := flag.String("cache-redis-addr", "", "optional redis address for the report cache; empty uses an in-process cache")
	seed := flag.Int64("seed", 1, "seed for the reservoir-sampling RNG")
	flag.Parse()

	if *eventLog == "" {
		log.Fatalf("sparkmap: -event-log is required")
	}
	if *seed == 0 {
		*seed = 1
	}

	reg := prometheus.NewRegistry()
	counters := telemetry.NewParseCounters(reg)

	if *metricsAddr != "" {
		mux := http.NewServeMux()
		mux.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))
		go func() {
			if err := http.ListenAndServe(*metricsAddr, mux); err != nil {
				log.Printf("sparkmap: metrics server stopped: %v", err)
			}
		}()
	}

	cacheAdapter := "mem"
	if *cacheRedisAddr != "" {
		cacheAdapter = "redis"
	}
	cache, err := reportcache.Build(cacheAdapter, *cacheRedisAddr)
	if err != nil {
		log.Fatalf("sparkmap: %v", err)
	}

	thresholds := detect.DefaultThresholds()
	if *thresholdsPath != "" {
		loaded, err := loadThresholds(*thresholdsPath)
		if err != nil {
			log.Fatalf("sparkmap: %v", err)
		}
		thresholds = loaded
	}
	if err := thresholds.Validate(); err != nil {
		log.Fatalf("sparkmap: invalid thresholds: %v", err)
	}

	ctx := context.Background()

	var cacheKey string
	if st, err := os.Stat(*eventLog); err == nil {
		// The output also depends on the format, seed and thresholds, so
		// they are part of the key alongside the file's identity.
		cacheKey = reportcache.Key(*eventLog, st.Size(), st.ModTime().UnixNano()) +
			fmt.Sprintf(":json=%t:seed=%d:%+v", *asJSON, *seed, thresholds)
		if cached, hit, err := cache.Get(ctx, cacheKey); err == nil && hit {
			os.Stdout.Write(cached)
			return
		}
	}

	logger := obslog.NewLogrus(logrus.New())

	rpt, err := sparkmap.Analyze(ctx, *eventLog, sparkmap.Options{
		Thresholds:        thresholds,
		RNG:               rand.New(rand.NewSource(*seed)),
		Logger:            logger,
		Counters:          counters,
		AnalysisTimestamp: time.Now().UTC().Format(time.RFC3339),
	})
	if err != nil {
		log.Fatalf("sparkmap: %v", err)
	}

	var out []byte
	if *asJSON {
		out, err = rpt.JSON()
		if err != nil {
			log.Fatalf("sparkmap: encode report: %v", err)
		}
	} else {
		out = []byte(rpt.Summary())
	}

	if cacheKey != "" {
		_ = cache.Set(ctx, cacheKey, out)
	}

	os.Stdout.Write(out)
}
