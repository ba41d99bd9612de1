package resource

import "testing"

func BenchmarkGenerate(b *testing.B) {
	reg := NewRegistry()
	for _, h := range []Handler{XMLHandler{}, YAMLHandler{}} {
		if err := reg.Register(h); err != nil {
			b.Fatal(err)
		}
	}
	data := map[string]any{
		"users": []any{
			map[string]any{"id": 1, "name": "ann"},
			map[string]any{"id": 2, "name": "bob"},
		},
	}

	for _, ct := range []string{TypeJSON, TypeXML, TypeYAML} {
		b.Run(ct, func(b *testing.B) {
			for b.Loop() {
				res, _, err := reg.Generate(data, ct, DefaultCharset)
				if err != nil {
					b.Fatal(err)
				}
				if _, err := res.Body(); err != nil {
					b.Fatal(err)
				}
			}
		})
	}
}

func BenchmarkMarshalRoundTrip(b *testing.B) {
	reg := NewRegistry()
	res, _, err := reg.Generate(map[string]any{"id": 1, "tags": []any{"a", "b"}}, TypeJSON, DefaultCharset)
	if err != nil {
		b.Fatal(err)
	}
	for b.Loop() {
		blob, err := Marshal(res)
		if err != nil {
			b.Fatal(err)
		}
		if _, err := reg.Unmarshal(blob); err != nil {
			b.Fatal(err)
		}
	}
}
