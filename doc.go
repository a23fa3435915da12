// Package reactive provides a demand-driven publish/subscribe toolkit: typed
// publishers, subscribers that control their own flow with demand, broadcasting
// subjects, and bridges that turn Redis and Postgres messaging into streams.
//
// This file serves as an index of all packages in the module.
// Each package entry includes the full import path and a concise description of its purpose.
//
// # Package Organization
//
//   - Core: stream primitives and the components built on them
//   - Integrations: broker bridges backed by Redis and Postgres
//   - Commands: a runnable tour of the API
//
// # Getting Documentation
//
//	go doc github.com/dmitrymomot/reactive/core/stream
//	go doc -all github.com/dmitrymomot/reactive/integration/database/redis
//
// # Core Packages
//
//	github.com/dmitrymomot/reactive/core/stream            - Publisher, Subscriber, Subscription, Demand, Subject and friends
//	github.com/dmitrymomot/reactive/core/stream/streamtest - Recording subscriber for testing publishers
//	github.com/dmitrymomot/reactive/core/notification      - Named notification center on top of subjects
//	github.com/dmitrymomot/reactive/core/health            - Dependency readiness checks and a status monitor stream
//	github.com/dmitrymomot/reactive/core/logger            - slog factory and attribute helpers
//	github.com/dmitrymomot/reactive/core/config            - Type-safe environment variable loading
//
// # Integration Packages
//
//	github.com/dmitrymomot/reactive/integration/database/redis - Redis connection and pub/sub streams
//	github.com/dmitrymomot/reactive/integration/database/pg    - PostgreSQL pool and LISTEN/NOTIFY streams
//
// # Commands
//
//	github.com/dmitrymomot/reactive/cmd/playground - Walks through every example and optional broker demos
//
// # Quick Start
//
//	subject := stream.NewSubject[string]()
//	subject.Subscribe(stream.Sink(func(v string) {
//		fmt.Println(v)
//	}, nil))
//	subject.Send("Hello")
//	subject.Complete(stream.Finished())
package reactive
