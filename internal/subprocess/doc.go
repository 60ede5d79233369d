// Package subprocess launches and supervises the external chat CLI.
//
// Each Process wraps one child process together with its private output
// buffer. Output chunks and the terminal status are delivered through hooks
// in arrival order: every output hook for a process fires before its exit
// hook, and the exit hook fires exactly once.
package subprocess
