//go:build wasm

package main

import (
	"encoding/json"
	"io"
	"sync"
	"syscall/js"

	"github.com/praetorian-inc/jsregexp"
	"github.com/praetorian-inc/jsregexp/pkg/matcher"
)

var (
	regexps   = make(map[int]*jsregexp.RegExp)
	regexpsMu sync.RWMutex
	nextID    int

	// statics are shared by every expression of the page
	statics = &jsregexp.Statics{}
)

// newRegExp compiles an expression.
// JS: JsRegExpNew(source, flags, engine?) -> {handle} or {error}
func newRegExp(this js.Value, args []js.Value) interface{} {
	if len(args) < 2 {
		return map[string]interface{}{"error": "source and flags arguments required"}
	}

	kind := matcher.KindRegexp2
	if len(args) > 2 {
		k, err := matcher.ParseKind(args[2].String())
		if err != nil {
			return map[string]interface{}{"error": err.Error()}
		}
		kind = k
	}

	opts := matcher.DefaultOptions()
	opts.Diagnostics = io.Discard
	re, err := jsregexp.New(args[0].String(), args[1].String(),
		jsregexp.WithEngine(kind),
		jsregexp.WithMatcherOptions(opts),
		jsregexp.WithStatics(statics),
	)
	if err != nil {
		return map[string]interface{}{"error": err.Error()}
	}

	// Register expression
	regexpsMu.Lock()
	id := nextID
	nextID++
	regexps[id] = re
	regexpsMu.Unlock()

	return map[string]interface{}{"handle": id}
}

func lookup(args []js.Value) (*jsregexp.RegExp, string, interface{}) {
	if len(args) < 2 {
		return nil, "", map[string]interface{}{"error": "handle and input arguments required"}
	}

	regexpsMu.RLock()
	re, ok := regexps[args[0].Int()]
	regexpsMu.RUnlock()

	if !ok {
		return nil, "", map[string]interface{}{"error": "invalid regexp handle"}
	}
	if len(args) > 2 && args[2].Type() == js.TypeNumber {
		re.LastIndex = args[2].Float()
	}
	return re, args[1].String(), nil
}

// execRegExp runs exec.
// JS: JsRegExpExec(handle, input, lastIndex?) -> JSON {result, lastIndex} or {error}
func execRegExp(this js.Value, args []js.Value) interface{} {
	re, input, errResult := lookup(args)
	if errResult != nil {
		return errResult
	}

	res, err := re.Exec(input)
	if err != nil {
		return map[string]interface{}{"error": "exec failed: " + err.Error()}
	}

	jsonBytes, err := json.Marshal(map[string]interface{}{
		"result":    res,
		"lastIndex": re.LastIndex,
	})
	if err != nil {
		return map[string]interface{}{"error": "failed to marshal result: " + err.Error()}
	}

	return string(jsonBytes)
}

// testRegExp runs test.
// JS: JsRegExpTest(handle, input, lastIndex?) -> bool or {error}
func testRegExp(this js.Value, args []js.Value) interface{} {
	re, input, errResult := lookup(args)
	if errResult != nil {
		return errResult
	}

	ok, err := re.Test(input)
	if err != nil {
		return map[string]interface{}{"error": "test failed: " + err.Error()}
	}
	return ok
}

// getStatics returns the legacy RegExp properties as JSON.
// JS: JsRegExpStatics() -> JSON object
func getStatics(this js.Value, args []js.Value) interface{} {
	jsonBytes, err := json.Marshal(map[string]interface{}{
		"input":        statics.Input,
		"lastMatch":    statics.LastMatch,
		"leftContext":  statics.LeftContext,
		"rightContext": statics.RightContext,
		"lastParen":    statics.LastParen,
	})
	if err != nil {
		return map[string]interface{}{"error": "failed to marshal statics: " + err.Error()}
	}
	return string(jsonBytes)
}

// releaseRegExp releases an expression.
// JS: JsRegExpRelease(handle)
func releaseRegExp(this js.Value, args []js.Value) interface{} {
	if len(args) < 1 {
		return map[string]interface{}{"error": "handle argument required"}
	}

	handle := args[0].Int()

	regexpsMu.Lock()
	re, ok := regexps[handle]
	if ok {
		delete(regexps, handle)
	}
	regexpsMu.Unlock()

	if !ok {
		return map[string]interface{}{"error": "invalid regexp handle"}
	}

	re.Close()

	return nil
}
