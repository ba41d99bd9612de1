// Package resource provides the typed, serializable mock responses served by mockrr.
//
// A Resource wraps a payload together with the metadata needed to render it
// as an HTTP response: content type, charset, status code and an ordered
// header list. The Content-Type header is derived from the content type and
// charset when the resource is built and can be overridden with AddHeader.
//
// # Type Registry
//
// A Registry maps content types to Handlers. Each Handler knows how to build,
// parse and restore one resource variant:
//
//   - JSONHandler: application/json (registered by default)
//   - XMLHandler: application/xml, backed by beevik/etree
//   - YAMLHandler: application/yaml, backed by gopkg.in/yaml.v3
//
// Unknown content types fail with ErrUnsupportedType.
//
// # Factories
//
// Resources are built from one of four kinds of input:
//
//	reg := resource.NewRegistry(resource.WithIncludeRoot("./fixtures"))
//
//	res, _ := reg.FromStructured(resource.TypeJSON, "", map[string]any{"id": 1})
//	res, _ = reg.FromFile(resource.TypeJSON, "", "users.json")
//	res, _ = reg.FromString(resource.TypeJSON, "", "plain text")
//	res, _ = reg.FromCallback(resource.TypeJSON, "", fn, resource.Vars{"id": "7"})
//
// Registry.Generate picks the factory from the shape of its input, in a fixed
// order: Resource, structured data, Callback, readable file path, struct,
// scalar.
//
// # Overrides
//
// Replace applies one of four explicit overrides:
//
//   - Replacement: swap in another resource wholesale
//   - Merge: recursive merge into structured payloads, full substitution of
//     scalar payloads
//   - CallbackPatch: merge the result of a callback that receives the cached
//     payload under the "cached" variable
//   - Substitution: replace the payload unconditionally
//
// OverrideOf classifies loosely typed input into one of these.
//
// # Serialization
//
// Marshal produces a self-describing JSON record holding the payload, content
// type, charset and headers. The status code is a render-time property and is
// not serialized. Registry.Unmarshal restores a record through the handler
// registered for its content type.
package resource
