// Package session persists local session state for one agent.
//
// # Overview
//
// The state document records everything the agent needs to survive a
// process restart: the long-lived auth token (or the in-flight frob while
// the authorization handshake is incomplete), the server-side timeline
// handle, and the log of transactions that can still be undone.
//
// # File Format
//
// State is stored as a small XML document rooted at <RTMAgent>:
//
//	<?xml version="1.0" encoding="UTF-8"?>
//	<RTMAgent>
//	  <token>410c57262293e9d937ee5be75eb7b0128fd61b61</token>
//	  <timeline>12741021</timeline>
//	  <undo>
//	    <entry id="41...">
//	      <operation>rtm.tasks.complete</operation>
//	      <param>list_id=387546</param>
//	      <param>task_id=1234</param>
//	    </entry>
//	  </undo>
//	</RTMAgent>
//
// The <undo> container is always present so an empty undo log round-trips
// as an empty sequence rather than vanishing. The default location is
// ~/.rtmagent.
//
// # Error Handling
//
// Load distinguishes three failure kinds, each wrapped with the offending
// path:
//
//   - ErrNotReadable / ErrNotWritable: the file exists but the process
//     lacks the permission. Both checks happen before any parsing, since a
//     file we could read but never write back would lose state silently at
//     save time.
//   - ErrInvalidFormat: the file exists, is accessible, but is not a
//     well-formed state document.
//
// An absent file is not an error; it yields a fresh empty State.
//
// # Concurrency
//
// Save overwrites unconditionally with no locking. The design assumes at
// most one live agent per state file; concurrent writers are last-writer-
// wins. That limitation is documented rather than masked.
package session
