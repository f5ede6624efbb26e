// Command bench measures tokenization throughput over an already-compiled
// dictionary image. It is a developer profiling harness, not a
// morphological-analysis front-end: it never prints tokens, only throughput
// and, optionally, CPU/heap profiles.
package main

import (
	"bufio"
	"flag"
	"os"
	"runtime/pprof"

	"github.com/golang/glog"
	"github.com/kho/easy"
	"github.com/kotoba-lang/kotoba"
)

func main() {
	var args struct {
		Dict string `name:"dict" usage:"path to a binary dictionary image"`
	}
	cpuprofile := flag.String("cpuprofile", "", "path to write a CPU profile")
	memprofile := flag.String("memprofile", "", "path to write a heap profile")
	ignoreSpace := flag.Bool("ignore_space", false, "set the ignore_space tokenizer option")
	maxGroupingLen := flag.Uint("max_grouping_len", 0, "set the max_grouping_len tokenizer option")
	easy.ParseFlagsAndArgs(&args)

	if *cpuprofile != "" {
		w := easy.MustCreate(*cpuprofile)
		pprof.StartCPUProfile(w)
		defer func() {
			pprof.StopCPUProfile()
			w.Close()
		}()
	}
	if *memprofile != "" {
		defer func() {
			w := easy.MustCreate(*memprofile)
			pprof.WriteHeapProfile(w)
			w.Close()
		}()
	}

	dict, err := kotoba.Open(args.Dict)
	if err != nil {
		glog.Fatal("error loading dictionary: ", err)
	}
	defer dict.Close()

	if *maxGroupingLen >= 64 {
		glog.Fatalf("max_grouping_len must be less than 64, got %d", *maxGroupingLen)
	}
	tok, err := kotoba.NewTokenizer(dict, kotoba.TokenizerOption{
		IgnoreSpace:    *ignoreSpace,
		MaxGroupingLen: uint16(*maxGroupingLen),
	})
	if err != nil {
		glog.Fatal(err)
	}
	w := tok.NewWorker()

	var numSents, numBytes, numTokens int
	in := bufio.NewScanner(os.Stdin)
	elapsed := easy.Timed(func() {
		for in.Scan() {
			line := in.Bytes()
			w.SetText(line)
			w.Tokenize()
			numSents++
			numBytes += len(line)
			for range w.TokenIter() {
				numTokens++
			}
		}
	})
	if err := in.Err(); err != nil {
		glog.Fatal(err)
	}
	mbps := float64(numBytes) / elapsed.Seconds() / (1 << 20)
	glog.Infof("%d sentences, %d bytes, %d tokens in %v; %.2f MB/s", numSents, numBytes, numTokens, elapsed, mbps)
}
