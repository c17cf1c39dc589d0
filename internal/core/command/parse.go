package command

import (
	"bytes"
	"strings"
	"unicode/utf8"

	"github.com/yndnr/respkv/pkg/resp"
)

type parseFunc func(resp.Array) (Command, error)

var parsers = map[string]parseFunc{
	"get":       parseGet,
	"set":       parseSet,
	"hget":      parseHGet,
	"hset":      parseHSet,
	"hgetall":   parseHGetAll,
	"hmget":     parseHMGet,
	"sadd":      parseSAdd,
	"sismember": parseSIsMember,
	"echo":      parseEcho,
	"ping":      parsePing,
	"quit":      parseQuit,
}

// FromFrame converts a decoded frame into a Command. Only arrays are commands.
func FromFrame(f resp.Frame) (Command, error) {
	arr, ok := f.(resp.Array)
	if !ok {
		return nil, invalidCommand("command must be an array, got %s", resp.KindOf(f))
	}
	return FromArray(arr)
}

// FromArray dispatches on the first element, which must be a bulk string.
// Unknown keywords yield Unrecognized.
func FromArray(arr resp.Array) (Command, error) {
	if len(arr) == 0 {
		return nil, invalidCommand("empty command")
	}
	name, ok := arr[0].(resp.BulkString)
	if !ok {
		return nil, invalidCommand("command must start with a bulk string, got %s", resp.KindOf(arr[0]))
	}

	keyword := string(bytes.ToLower(name))
	parse, ok := parsers[keyword]
	if !ok {
		return Unrecognized{Keyword: keyword}, nil
	}
	return parse(arr)
}

// validateCommand checks that arr starts with the given keywords and holds
// at least nArgs arguments after them.
func validateCommand(arr resp.Array, names []string, nArgs int) error {
	if len(arr) < len(names)+nArgs {
		return invalidArgument("wrong number of arguments for '%s' command", strings.Join(names, " "))
	}
	for i, name := range names {
		token, ok := arr[i].(resp.BulkString)
		if !ok {
			return invalidCommand("command must start with a bulk string, got %s", resp.KindOf(arr[i]))
		}
		if !strings.EqualFold(string(token), name) {
			return invalidCommand("expected %s, got %s", name, token)
		}
	}
	return nil
}

// stringArg returns arr[i] as text. what names the argument in errors.
func stringArg(arr resp.Array, i int, what string) (string, error) {
	bs, ok := arr[i].(resp.BulkString)
	if !ok {
		return "", invalidArgument("%s must be a bulk string, got %s", what, resp.KindOf(arr[i]))
	}
	if !utf8.Valid(bs) {
		return "", invalidArgument("%s: invalid utf-8", what)
	}
	return string(bs), nil
}

func stringArgs(arr resp.Array, start int, what string) ([]string, error) {
	out := make([]string, 0, len(arr)-start)
	for i := start; i < len(arr); i++ {
		s, err := stringArg(arr, i, what)
		if err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, nil
}

func parseGet(arr resp.Array) (Command, error) {
	if err := validateCommand(arr, []string{"get"}, 1); err != nil {
		return nil, err
	}
	key, err := stringArg(arr, 1, "key")
	if err != nil {
		return nil, err
	}
	return Get{Key: key}, nil
}

func parseSet(arr resp.Array) (Command, error) {
	if err := validateCommand(arr, []string{"set"}, 2); err != nil {
		return nil, err
	}
	key, err := stringArg(arr, 1, "key")
	if err != nil {
		return nil, err
	}
	return Set{Key: key, Value: arr[2]}, nil
}

func parseHGet(arr resp.Array) (Command, error) {
	if err := validateCommand(arr, []string{"hget"}, 2); err != nil {
		return nil, err
	}
	key, err := stringArg(arr, 1, "key")
	if err != nil {
		return nil, err
	}
	field, err := stringArg(arr, 2, "field")
	if err != nil {
		return nil, err
	}
	return HGet{Key: key, Field: field}, nil
}

func parseHSet(arr resp.Array) (Command, error) {
	if err := validateCommand(arr, []string{"hset"}, 3); err != nil {
		return nil, err
	}
	key, err := stringArg(arr, 1, "key")
	if err != nil {
		return nil, err
	}
	field, err := stringArg(arr, 2, "field")
	if err != nil {
		return nil, err
	}
	return HSet{Key: key, Field: field, Value: arr[3]}, nil
}

func parseHGetAll(arr resp.Array) (Command, error) {
	if err := validateCommand(arr, []string{"hgetall"}, 1); err != nil {
		return nil, err
	}
	key, err := stringArg(arr, 1, "key")
	if err != nil {
		return nil, err
	}
	return HGetAll{Key: key}, nil
}

func parseHMGet(arr resp.Array) (Command, error) {
	if err := validateCommand(arr, []string{"hmget"}, 2); err != nil {
		return nil, err
	}
	key, err := stringArg(arr, 1, "key")
	if err != nil {
		return nil, err
	}
	fields, err := stringArgs(arr, 2, "field")
	if err != nil {
		return nil, err
	}
	return HMGet{Key: key, Fields: fields}, nil
}

func parseSAdd(arr resp.Array) (Command, error) {
	if err := validateCommand(arr, []string{"sadd"}, 2); err != nil {
		return nil, err
	}
	key, err := stringArg(arr, 1, "key")
	if err != nil {
		return nil, err
	}
	members, err := stringArgs(arr, 2, "member")
	if err != nil {
		return nil, err
	}
	return SAdd{Key: key, Members: members}, nil
}

func parseSIsMember(arr resp.Array) (Command, error) {
	if err := validateCommand(arr, []string{"sismember"}, 2); err != nil {
		return nil, err
	}
	key, err := stringArg(arr, 1, "key")
	if err != nil {
		return nil, err
	}
	member, err := stringArg(arr, 2, "member")
	if err != nil {
		return nil, err
	}
	return SIsMember{Key: key, Member: member}, nil
}

func parseEcho(arr resp.Array) (Command, error) {
	if err := validateCommand(arr, []string{"echo"}, 1); err != nil {
		return nil, err
	}
	value, err := stringArg(arr, 1, "message")
	if err != nil {
		return nil, err
	}
	return Echo{Value: value}, nil
}

func parsePing(arr resp.Array) (Command, error) {
	if err := validateCommand(arr, []string{"ping"}, 0); err != nil {
		return nil, err
	}
	if len(arr) == 1 {
		return Ping{}, nil
	}
	msg, err := stringArg(arr, 1, "message")
	if err != nil {
		return nil, err
	}
	return Ping{Message: msg, HasMessage: true}, nil
}

func parseQuit(arr resp.Array) (Command, error) {
	if err := validateCommand(arr, []string{"quit"}, 0); err != nil {
		return nil, err
	}
	return Quit{}, nil
}
