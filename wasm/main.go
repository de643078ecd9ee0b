//go:build wasm

package main

import (
	"syscall/js"
)

func main() {
	// Export functions to JavaScript
	js.Global().Set("JsRegExpNew", js.FuncOf(newRegExp))
	js.Global().Set("JsRegExpExec", js.FuncOf(execRegExp))
	js.Global().Set("JsRegExpTest", js.FuncOf(testRegExp))
	js.Global().Set("JsRegExpStatics", js.FuncOf(getStatics))
	js.Global().Set("JsRegExpRelease", js.FuncOf(releaseRegExp))

	// Keep WASM running
	<-make(chan struct{})
}
