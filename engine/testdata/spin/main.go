package main

import (
	"fmt"
	"os"
	"sync"
)

const size = 2000

func sum(numbers []int32) int64 {
	var sum int64
	for _, i := range numbers {
		sum += int64(i)
	}
	return sum
}

func main() {
	numbers := make([]int32, size)
	for i := range numbers {
		numbers[i] = int32(i)
	}

	var wg sync.WaitGroup
	sums := make([]int64, 2)
	for i := range sums {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			sums[i] = sum(numbers)
		}(i)
	}
	wg.Wait()

	fmt.Println(sums[0] + sums[1])
	os.Exit(3)
}
