// Command mockrr generates mock API resources and caches them by id.
package main

import "github.com/getmockd/mockrr/pkg/cli"

func main() {
	cli.Execute()
}
