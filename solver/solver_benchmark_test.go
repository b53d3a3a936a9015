package solver

import (
	"testing"

	"rtori-go/fold"
)

func makeSolverForBench(b *testing.B, doc string) *Solver {
	b.Helper()
	d, err := fold.Parse([]byte(doc))
	if err != nil {
		b.Fatalf("fold.Parse: %v", err)
	}
	s, err := Create(nil, FamilyOrigami, CPU)
	if err != nil {
		b.Fatalf("Create: %v", err)
	}
	if err := s.LoadFromFold(d, 0); err != nil {
		b.Fatalf("LoadFromFold: %v", err)
	}
	return s
}

func BenchmarkStepUnitSquare(b *testing.B) {
	s := makeSolverForBench(b, unitSquareValleyFold)
	defer s.Close()
	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if err := s.Step(1); err != nil {
			b.Fatalf("Step: %v", err)
		}
	}
}

func BenchmarkStepCubeNet(b *testing.B) {
	s := makeSolverForBench(b, cubeNetFold)
	defer s.Close()
	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if err := s.Step(1); err != nil {
			b.Fatalf("Step: %v", err)
		}
	}
}

func BenchmarkStepGridMultithreaded(b *testing.B) {
	d, err := fold.Parse([]byte(gridFold(4)))
	if err != nil {
		b.Fatalf("fold.Parse: %v", err)
	}
	s, err := Create(nil, FamilyOrigami, CPUMT)
	if err != nil {
		b.Fatalf("Create: %v", err)
	}
	defer s.Close()
	if err := s.LoadFromFold(d, 0); err != nil {
		b.Fatalf("LoadFromFold: %v", err)
	}
	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if err := s.Step(1); err != nil {
			b.Fatalf("Step: %v", err)
		}
	}
}
