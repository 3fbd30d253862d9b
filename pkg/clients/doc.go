// Package clients provides the shared base for the meeting platform API clients.
//
// # Overview
//
// Each API area has its own subpackage, and each subpackage exposes one
// client kind:
//
//   - [meeting]: schedule, query and cancel meetings
//   - [user]: manage enterprise users
//   - [room]: list and inspect Rooms devices
//   - [recording]: list cloud recordings and their download addresses
//   - [webhook]: decode event callbacks (no HTTP)
//   - [sync]: page through meetings and users into a caller-supplied sink
//
// # Client Pattern
//
// All kinds follow the same constructor signature so the registry can build
// them uniformly:
//
//	c, err := meeting.New(clients.Params{Config: cfg, Transport: t})
//	m, err := c.Get(ctx, "7567173273889276131", "alice")
//
// Constructors validate what the kind needs and never perform network I/O.
// Failures are CLIENT_CONSTRUCTION errors wrapping the cause.
//
// # Shared Infrastructure
//
// [Client] is embedded by every HTTP-backed kind. It forwards requests to a
// [transport.Transport], applies the base URL and timeout captured from the
// configuration at construction time, and caches GET responses in a
// [cache.Cache] scoped to the kind.
//
// [meeting]: github.com/matzehuels/meetingkit/pkg/clients/meeting
// [user]: github.com/matzehuels/meetingkit/pkg/clients/user
// [room]: github.com/matzehuels/meetingkit/pkg/clients/room
// [recording]: github.com/matzehuels/meetingkit/pkg/clients/recording
// [webhook]: github.com/matzehuels/meetingkit/pkg/clients/webhook
// [sync]: github.com/matzehuels/meetingkit/pkg/clients/sync
// [transport.Transport]: github.com/matzehuels/meetingkit/pkg/transport.Transport
// [cache.Cache]: github.com/matzehuels/meetingkit/pkg/cache.Cache
package clients
