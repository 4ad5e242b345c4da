package spirv

import (
	"fmt"

	"fortio.org/safecast"
)

// MaxInstructionWords is the largest word count a header can encode.
const MaxInstructionWords = 0xFFFF

// Instruction represents a SPIR-V instruction.
type Instruction struct {
	Opcode OpCode
	Words  []uint32 // result type ID, result ID, operands
}

// InstructionBuilder builds SPIR-V instructions.
type InstructionBuilder struct {
	words []uint32
}

// NewInstructionBuilder creates a new instruction builder.
func NewInstructionBuilder() *InstructionBuilder {
	return &InstructionBuilder{
		words: make([]uint32, 0, 8),
	}
}

// AddWord adds a word to the instruction.
func (b *InstructionBuilder) AddWord(word uint32) {
	b.words = append(b.words, word)
}

// AddString adds a NUL-terminated UTF-8 string padded to a word boundary.
// A string of n bytes always occupies n/4+1 words.
func (b *InstructionBuilder) AddString(s string) {
	b.words = appendString(b.words, s)
}

// Build builds the instruction with the given opcode.
func (b *InstructionBuilder) Build(opcode OpCode) Instruction {
	return Instruction{
		Opcode: opcode,
		Words:  b.words,
	}
}

// WordCount returns the encoded size including the header word.
func (i Instruction) WordCount() int {
	return len(i.Words) + 1
}

// Header returns the first word of the encoded instruction.
func (i Instruction) Header() uint32 {
	return headerWord(i.WordCount(), i.Opcode)
}

// AppendTo appends the encoded instruction to dst.
func (i Instruction) AppendTo(dst []uint32) []uint32 {
	dst = append(dst, i.Header())
	return append(dst, i.Words...)
}

func headerWord(wordCount int, op OpCode) uint32 {
	n, err := safecast.Conv[uint16](wordCount)
	if err != nil {
		panic(fmt.Errorf("%s word count overflow: %w", op, err))
	}
	return uint32(n)<<16 | uint32(op)
}

// StringWords returns the number of words a literal string occupies.
func StringWords(s string) int {
	return len(s)/4 + 1
}

func appendString(dst []uint32, s string) []uint32 {
	n := StringWords(s)
	for w := range n {
		var word uint32
		for j := range 4 {
			k := w*4 + j
			if k < len(s) {
				word |= uint32(s[k]) << (8 * j)
			}
		}
		dst = append(dst, word)
	}
	return dst
}

// versionToWord converts Version to SPIR-V word format.
func versionToWord(v Version) uint32 {
	return (uint32(v.Major) << 16) | (uint32(v.Minor) << 8)
}
