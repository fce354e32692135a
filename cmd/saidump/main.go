// Command saidump dumps a switch's persisted ASIC_STATE as JSON, reading
// through the same store package syncd uses rather than talking to Redis
// directly.
package main

func main() {
	execute()
}
