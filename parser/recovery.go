package parser

import "github.com/metaphox/rsfront/ast"

// RecoveryState is the state of the panic-mode automaton.
type RecoveryState int

const (
	// Normal: tokens go to the grammar.
	Normal RecoveryState = iota
	// Recovering: tokens are discarded until the synchronizing token.
	Recovering
)

func (s RecoveryState) String() string {
	if s == Recovering {
		return "RECOVERING"
	}
	return "NORMAL"
}

// Step is the outcome of feeding one token to a recovering automaton.
type Step int

const (
	// Discard: the token is dropped, keep feeding.
	Discard Step = iota
	// Synced: the token is the synchronizing token. It is consumed and the
	// automaton is back to Normal.
	Synced
	// Exhausted: input ended before synchronizing. Parsing must stop.
	Exhausted
)

// Sync is the synchronizing token: recovery resumes after the next ';'.
const Sync = ast.SEMICOLON

// Recovery is the panic-mode automaton. Enter switches to Recovering; Feed
// then classifies each token, starting with the offending one. Every Feed in
// the Recovering state either consumes a token or reports Exhausted, so a
// caller that advances on Discard and Synced always terminates.
type Recovery struct {
	state     RecoveryState
	discarded int
}

// State returns the current state.
func (r *Recovery) State() RecoveryState { return r.state }

// Discarded returns the number of tokens dropped by the current or last
// recovery, the synchronizing token excluded.
func (r *Recovery) Discarded() int { return r.discarded }

// Enter starts a recovery.
func (r *Recovery) Enter() {
	r.state = Recovering
	r.discarded = 0
}

// Feed classifies tok. In the Normal state it always returns Synced.
func (r *Recovery) Feed(tok ast.Token) Step {
	if r.state == Normal {
		return Synced
	}
	switch tok.Type {
	case ast.EOF:
		r.state = Normal
		return Exhausted
	case Sync:
		r.state = Normal
		return Synced
	default:
		r.discarded++
		return Discard
	}
}
