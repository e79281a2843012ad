// Command hddsim replays block I/O traces against a simulated hard disk.
package main

import "github.com/sarchlab/hddsim/hddsim/cmd"

func main() {
	cmd.Execute()
}
