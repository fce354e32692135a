// Command saiplayer replays a recorded record stream against a driver —
// the virtual switch by default, exercising the same bulk create/remove/set
// path syncd's consumer loop uses, without a live producer or persisted
// state.
package main

func main() {
	execute()
}
