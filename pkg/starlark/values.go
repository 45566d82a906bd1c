package starlark

import (
	"github.com/artigo/artigo/pkg/template"
	"go.starlark.net/starlark"
)

// ConvertToStarlark converts a template Value to a Starlark value
func ConvertToStarlark(val template.Value) starlark.Value {
	if val == nil {
		return starlark.None
	}

	switch v := val.(type) {
	case template.StringValue:
		return starlark.String(string(v))
	case template.IntValue:
		return starlark.MakeInt64(int64(v))
	case template.FloatValue:
		return starlark.Float(float64(v))
	case template.BoolValue:
		return starlark.Bool(bool(v))
	case template.ListValue:
		items := make([]starlark.Value, len(v))
		for i, item := range v {
			items[i] = ConvertToStarlark(item)
		}
		return starlark.NewList(items)
	case template.DictValue:
		dict := starlark.NewDict(len(v))
		for key, value := range v {
			_ = dict.SetKey(starlark.String(key), ConvertToStarlark(value))
		}
		return dict
	case template.NoneValue:
		return starlark.None
	default:
		return starlark.String(val.String())
	}
}

// ConvertFromStarlark converts a Starlark value to a template Value
func ConvertFromStarlark(val starlark.Value) template.Value {
	if val == nil || val == starlark.None {
		return template.NoneValue{}
	}

	switch v := val.(type) {
	case starlark.String:
		return template.StringValue(string(v))
	case starlark.Int:
		if i, ok := v.Int64(); ok {
			return template.IntValue(i)
		}
		// Too large for int64.
		return template.StringValue(v.String())
	case starlark.Float:
		return template.FloatValue(float64(v))
	case starlark.Bool:
		return template.BoolValue(bool(v))
	case starlark.Tuple:
		items := make(template.ListValue, len(v))
		for i, item := range v {
			items[i] = ConvertFromStarlark(item)
		}
		return items
	case *starlark.List:
		items := make(template.ListValue, v.Len())
		for i := 0; i < v.Len(); i++ {
			items[i] = ConvertFromStarlark(v.Index(i))
		}
		return items
	case *starlark.Dict:
		dict := make(template.DictValue)
		for _, item := range v.Items() {
			if keyStr, ok := item[0].(starlark.String); ok {
				dict[string(keyStr)] = ConvertFromStarlark(item[1])
			} else {
				dict[item[0].String()] = ConvertFromStarlark(item[1])
			}
		}
		return dict
	default:
		return template.StringValue(val.String())
	}
}
