package kernel

import "testing"

func BenchmarkBuild(b *testing.B) {
	cases := []struct {
		name string
		kind Kind
	}{
		{"ram-lak", KindRamLak},
		{"shepp-logan", KindSheppLogan},
		{"parzen", KindParzen},
	}

	for _, c := range cases {
		b.Run(c.name, func(b *testing.B) {
			for i := 0; i < b.N; i++ {
				if _, err := Build(c.kind, 2048, 1, false); err != nil {
					b.Fatal(err)
				}
			}
		})
	}
}
