package tail

import (
	"strings"
	"testing"
)

func BenchmarkTailStartPosition(b *testing.B) {
	var sb strings.Builder
	for i := 0; i < 200000; i++ {
		sb.WriteString("the quick brown fox jumps over the lazy dog\n")
	}
	content := sb.String()

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		r := newMemReader(content)
		if _, err := TailStartPosition(r, 10); err != nil {
			b.Fatalf("TailStartPosition: %v", err)
		}
	}
}
