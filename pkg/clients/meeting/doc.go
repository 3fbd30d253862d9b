// Package meeting provides a client for the meeting scheduling API.
//
// Meetings are created, queried and cancelled on behalf of an enterprise
// user identified by userid:
//
//	c, err := meeting.New(params)
//	m, err := c.Create(ctx, meeting.CreateRequest{
//	    UserID:    "alice",
//	    Subject:   "Weekly sync",
//	    StartTime: start,
//	    EndTime:   start.Add(time.Hour),
//	})
//
// All methods are safe for concurrent use.
package meeting
