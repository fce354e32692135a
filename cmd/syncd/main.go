// Command syncd is the consumer daemon: it dequeues records from the
// producer/consumer queue and runs discovery, matching, reconciliation,
// and hard-reinit replay against a driver, persisting every result.
package main

func main() {
	execute()
}
