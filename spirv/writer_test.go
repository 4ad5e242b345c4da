package spirv

import (
	"testing"
)

func TestInstructionBuilder_AddString(t *testing.T) {
	tests := []struct {
		input string
		want  []uint32
	}{
		{"", []uint32{0}},
		{"abc", []uint32{0x00636261}},
		{"main", []uint32{0x6E69616D, 0}},
		{"GLSL.std.450", []uint32{0x4C534C47, 0x6474732E, 0x3035342E, 0}},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			b := NewInstructionBuilder()
			b.AddString(tt.input)
			got := b.Build(OpName).Words
			if len(got) != len(tt.want) {
				t.Fatalf("got %d words, want %d", len(got), len(tt.want))
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Errorf("word %d = 0x%08X, want 0x%08X", i, got[i], tt.want[i])
				}
			}
			if StringWords(tt.input) != len(tt.want) {
				t.Errorf("StringWords(%q) = %d, want %d", tt.input, StringWords(tt.input), len(tt.want))
			}
		})
	}
}

func TestInstruction_AppendTo(t *testing.T) {
	b := NewInstructionBuilder()
	for _, w := range []uint32{7, 8, 9} {
		b.AddWord(w)
	}
	inst := b.Build(OpStore)

	got := inst.AppendTo([]uint32{0xFFFFFFFF})[1:]
	want := []uint32{4<<16 | uint32(OpStore), 7, 8, 9}
	if len(got) != len(want) {
		t.Fatalf("AppendTo() = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("word %d = 0x%08X, want 0x%08X", i, got[i], want[i])
		}
	}
	if inst.WordCount() != 4 {
		t.Errorf("WordCount() = %d, want 4", inst.WordCount())
	}
}

func TestOpCode_String(t *testing.T) {
	if got := OpVectorTimesScalar.String(); got != "OpVectorTimesScalar" {
		t.Errorf("String() = %q", got)
	}
	if got := OpCode(4000).String(); got != "Op4000" {
		t.Errorf("unknown opcode String() = %q", got)
	}
}
