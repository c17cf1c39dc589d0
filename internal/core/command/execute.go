package command

import "github.com/yndnr/respkv/pkg/resp"

// Execute runs cmd against b and returns the reply frame. It never fails.
func Execute(cmd Command, b Backend) resp.Frame {
	switch c := cmd.(type) {
	case Get:
		return valueOrNull(b.Get(c.Key))

	case Set:
		b.Set(c.Key, c.Value)
		return resp.OK

	case HGet:
		return valueOrNull(b.HGet(c.Key, c.Field))

	case HSet:
		b.HSet(c.Key, c.Field, c.Value)
		return resp.OK

	case HGetAll:
		fields, ok := b.HGetAll(c.Key)
		if !ok {
			return resp.Map{}
		}
		return resp.Map(fields)

	case HMGet:
		out := make(resp.Array, len(c.Fields))
		for i, field := range c.Fields {
			out[i] = valueOrNull(b.HGet(c.Key, field))
		}
		return out

	case SAdd:
		b.InsertMembers(c.Key, c.Members)
		return resp.OK

	case SIsMember:
		if b.SIsMember(c.Key, c.Member) {
			return resp.Integer(1)
		}
		return resp.Integer(0)

	case Echo:
		return resp.BulkString(c.Value)

	case Ping:
		if c.HasMessage {
			return resp.BulkString(c.Message)
		}
		return resp.SimpleString("PONG")

	case Quit, Unrecognized:
		return resp.OK

	default:
		return resp.OK
	}
}

func valueOrNull(v resp.Frame, ok bool) resp.Frame {
	if !ok || v == nil {
		return resp.Null{}
	}
	return v
}
