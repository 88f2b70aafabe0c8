package instrument

import (
	"runtime"
	"testing"
)

func BenchmarkRun(b *testing.B) {
	binary := computeShader(b)
	modes := []struct {
		name        string
		conditional bool
	}{
		{"conditional", true},
		{"report_only", false},
	}

	for _, mode := range modes {
		b.Run(mode.name, func(b *testing.B) {
			b.ReportAllocs()
			b.SetBytes(int64(len(binary)))
			b.ResetTimer()

			var result []byte
			for i := 0; i < b.N; i++ {
				opts := DefaultOptions()
				opts.Conditional = mode.conditional
				var err error
				result, err = Run(binary, opts)
				if err != nil {
					b.Fatalf("instrumentation failed: %v", err)
				}
			}
			runtime.KeepAlive(result)
		})
	}
}
