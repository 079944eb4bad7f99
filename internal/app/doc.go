// Package app ties the editing core to a terminal.
//
// A Session owns one event loop, one buffer and one key processor and
// reads one line of input per Prompt call:
//
//	terminal bytes -> decode.Decoder -> input.Processor -> buffer.Buffer
//	                                                        |
//	terminal <- backend.Output <- renderer.Renderer <- layout tree
//
// Everything runs on the loop goroutine, which is the goroutine that
// called Prompt. Input, signals, timers, config reloads and completion
// results are posted to the loop. Raw mode is held only while a prompt
// runs and is released on every exit path.
//
// Inline sessions draw below the shell prompt through a VT100 writer.
// Fullscreen sessions hand the terminal to tcell.
package app
