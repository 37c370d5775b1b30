// Package meeting drives structured multi-turn conversations among agents
// playing company roles.
//
// The leader always opens. Then, round by round, every other participant
// speaks once in agenda order followed by a leader reply, until the agenda's
// turn ceiling is reached. The leader closes with a summary. Decisions and
// fenced code blocks are mined from the turns afterwards.
//
// Any failed agent call aborts the meeting; no partial result is returned.
package meeting
