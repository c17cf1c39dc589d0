package command

import "github.com/yndnr/respkv/pkg/resp"

// Command is a validated request.
type Command interface {
	// Name returns the lower-case command keyword.
	Name() string
	command()
}

// Get reads a string key.
type Get struct {
	Key string
}

// Set stores any frame under a string key.
type Set struct {
	Key   string
	Value resp.Frame
}

// HGet reads one field of a hash.
type HGet struct {
	Key   string
	Field string
}

// HSet stores one field of a hash, creating the hash if needed.
type HSet struct {
	Key   string
	Field string
	Value resp.Frame
}

// HGetAll reads every field of a hash.
type HGetAll struct {
	Key string
}

// HMGet reads several fields of a hash in the requested order.
type HMGet struct {
	Key    string
	Fields []string
}

// SAdd unions members into a set, creating it if needed.
type SAdd struct {
	Key     string
	Members []string
}

// SIsMember tests set membership.
type SIsMember struct {
	Key    string
	Member string
}

// Echo returns its argument unchanged.
type Echo struct {
	Value string
}

// Ping replies PONG, or echoes Message when HasMessage is set.
type Ping struct {
	Message    string
	HasMessage bool
}

// Quit asks the server to close the connection after replying.
type Quit struct{}

// Unrecognized is any keyword outside the supported set.
type Unrecognized struct {
	// Keyword is the lower-cased keyword the client sent.
	Keyword string
}

func (Get) Name() string          { return "get" }
func (Set) Name() string          { return "set" }
func (HGet) Name() string         { return "hget" }
func (HSet) Name() string         { return "hset" }
func (HGetAll) Name() string      { return "hgetall" }
func (HMGet) Name() string        { return "hmget" }
func (SAdd) Name() string         { return "sadd" }
func (SIsMember) Name() string    { return "sismember" }
func (Echo) Name() string         { return "echo" }
func (Ping) Name() string         { return "ping" }
func (Quit) Name() string         { return "quit" }
func (Unrecognized) Name() string { return "unrecognized" }

func (Get) command()          {}
func (Set) command()          {}
func (HGet) command()         {}
func (HSet) command()         {}
func (HGetAll) command()      {}
func (HMGet) command()        {}
func (SAdd) command()         {}
func (SIsMember) command()    {}
func (Echo) command()         {}
func (Ping) command()         {}
func (Quit) command()         {}
func (Unrecognized) command() {}

// Names lists the supported keywords, for completion and help output.
func Names() []string {
	return []string{
		"echo", "get", "hget", "hgetall", "hmget", "hset",
		"ping", "quit", "sadd", "set", "sismember",
	}
}
