// Package config loads mockrr settings.
//
// Values are layered, lowest precedence first:
//
//  1. built-in defaults
//  2. the global file, $XDG_CONFIG_HOME/mockrr/config.yaml
//  3. the local file, mockrr.yaml or .mockrr.yaml in the working directory, or --config
//  4. MOCKRR_* environment variables, with a .env file in the working directory filling gaps
//  5. command-line flags, merged by the caller with Merge
//
// Files are validated against an embedded JSON schema before they are decoded.
// A file can also declare resources to seed into the cache:
//
//	resources:
//	  - id: users
//	    file: fixtures/users.json
//	  - glob: fixtures/**/*.yaml
//	    type: application/yaml
//	  - id: token
//	    expr: '{"token": uuid(), "type": type}'
package config
