// A hand-instrumented target for smoke testing the runtime. Normally the
// entry/exit hooks are injected by the loop instrumentation pass; here they
// are written out by hand. Build and run it on a machine with perf access,
// then inspect loops.prof with cmd/loopprof.
package main

import (
	"fmt"
	"math/rand"

	"github.com/maxxing/loopprof"
)

const size = 1000000

func fill(numbers []int32) {
	site := loopprof.Enter()
	for i := range numbers {
		numbers[i] = rand.Int31()
	}
	loopprof.Exit(site)
}

func sum(numbers []int32) int64 {
	var total int64
	site := loopprof.Enter()
	for _, n := range numbers {
		total += int64(n)
	}
	loopprof.Exit(site)
	return total
}

// sumTree exercises recursive re-entry of the same call-site.
func sumTree(numbers []int32) int64 {
	if len(numbers) < 1024 {
		return sum(numbers)
	}
	site := loopprof.Enter()
	total := sumTree(numbers[:len(numbers)/2]) + sumTree(numbers[len(numbers)/2:])
	loopprof.Exit(site)
	return total
}

func main() {
	loopprof.Init()

	numbers := make([]int32, size)
	fill(numbers)
	fmt.Println(sum(numbers))
	fmt.Println(sumTree(numbers))

	loopprof.Fini()
}
