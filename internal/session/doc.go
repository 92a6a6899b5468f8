// Package session tracks which conversation the client is showing.
//
// # Overview
//
// The chat server owns conversations; the client only remembers one
// identifier, the active conversation, and shows that conversation's
// messages in the transcript. State is the single owner of that identifier
// and enforces how it may change.
//
// # Transitions
//
//  1. Create: the first successful send with no active conversation adopts
//     the identifier the server returned (AdoptCreated). The transcript on
//     screen already belongs to that conversation, so the epoch is unchanged.
//
//  2. Reset: an explicit reset or "new conversation" adopts the identifier
//     from the server unconditionally and discards the previous one (Reset).
//
//  3. Select: picking a history entry adopts its identifier only when it
//     differs from the active one (Select). Re-selecting the active
//     conversation is a no-op so the transcript is not refetched.
//
// # Epochs
//
// Requests run in the background and may finish out of order. Every
// transition that replaces the transcript (Reset, Select) bumps a monotonic
// epoch. Flows stamp outgoing requests with Epoch() and check IsCurrent when
// the completion arrives; a completion from an older epoch no longer
// describes what is on screen and is dropped.
//
// State is not safe for concurrent use. It is owned by the Bubble Tea model
// and only touched from its Update loop.
package session
