// Package cli implements the mockrr command line.
//
// Every command loads the layered configuration from package config, applies
// the persistent flags on top and opens the configured cache backend:
//
//	mockrr once user-7 '{"name": "ann"}'
//	mockrr sequence req-1 demo First Second Third
//	mockrr update user-7 '{"name": "bob"}'
//	mockrr get user-7 --path '$.name'
//	mockrr serve --addr :4280
package cli
