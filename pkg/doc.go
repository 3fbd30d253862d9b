// Package pkg holds the meetingkit libraries.
//
// # Overview
//
// Meetingkit wraps the REST API of an enterprise meeting platform behind one
// client per service. The packages are layered:
//
//  1. [config] - credentials and settings from TOML and MEETINGKIT_* variables
//  2. [transport] - signed HTTP requests and the error envelope
//  3. [cache] - response caches (file, Redis, none)
//  4. [clients] - the per-service clients (meeting, user, room, recording,
//     webhook, datasync) built on a shared base client
//  5. [registry] - lazily builds and caches one client per kind, with
//     statistics, reconfiguration, reset and batch creation
//
// [observability] carries no-op hooks that [observability/prom] turns into
// Prometheus metrics. [errors] defines the error codes shared by all layers.
//
// # Quick Start
//
//	cfg, err := config.Load("meetingkit.toml")
//	if err != nil {
//	    return err
//	}
//	reg := registry.New(cfg, transport.New(cfg))
//
//	meetings, err := reg.Meeting()
//	if err != nil {
//	    return err
//	}
//	m, err := meetings.Get(ctx, "meeting-id", "user-id")
//
// Handles are cached per kind while cache_enabled is on:
//
//	a, _ := reg.Create(clients.KindUser)
//	b, _ := reg.Create(clients.KindUser) // same handle, counted as a cache hit
//	fmt.Println(reg.CreationStats().CacheHitRate)
package pkg
