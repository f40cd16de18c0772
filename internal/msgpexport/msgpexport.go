// Package msgpexport encodes decoded calls as MessagePack using the
// tinylib/msgp runtime helpers directly, without generated marshalers.
package msgpexport

import (
	"github.com/tinylib/msgp/msgp"

	"github.com/mysticbob/apitrace/trace"
)

// AppendCall appends call's MessagePack encoding to b and returns the
// grown slice: {"no":uint, "name":str, "args":[str...], "ret":str}. The
// "ret" key is present only when the call has a return value.
func AppendCall(b []byte, call *trace.Call) []byte {
	fields := 3
	if call.Ret != nil {
		fields++
	}
	b = msgp.AppendMapHeader(b, uint32(fields))

	b = msgp.AppendString(b, "no")
	b = msgp.AppendUint32(b, call.No)

	b = msgp.AppendString(b, "name")
	b = msgp.AppendString(b, call.Name())

	b = msgp.AppendString(b, "args")
	b = msgp.AppendArrayHeader(b, uint32(len(call.Args)))
	for _, arg := range call.Args {
		b = msgp.AppendString(b, arg.String())
	}

	if call.Ret != nil {
		b = msgp.AppendString(b, "ret")
		b = msgp.AppendString(b, call.Ret.String())
	}

	return b
}

// AppendCalls appends every call in order, each as its own top-level
// MessagePack value (a "message stream", not a wrapping array).
func AppendCalls(b []byte, calls []*trace.Call) []byte {
	for _, c := range calls {
		b = AppendCall(b, c)
	}
	return b
}
