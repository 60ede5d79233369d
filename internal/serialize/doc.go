// Package serialize converts a conversation history into the on-disk
// artifacts and command line arguments the external chat CLI expects.
package serialize
