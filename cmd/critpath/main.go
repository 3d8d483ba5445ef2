// Command critpath schedules task networks with the Critical Path Method.
package main

import "github.com/papapumpkin/critpath/cmd"

func main() {
	cmd.Execute()
}
