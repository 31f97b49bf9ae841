// Copyright 2015, Joe Tsai. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE.md file.

// Command sqz is a gzip-style byte-I/O harness around the sqz codec: it is
// not part of the codec itself, only a convenient way to drive it from the
// shell.
package main

import (
	"bytes"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	dsioutil "github.com/dsnet/golib/ioutil"
	gostrconv "github.com/dsnet/golib/strconv"

	"github.com/mseriukov/sqz"
)

const extension = ".sqz"

var (
	decompress = flag.Bool("d", false, "decompress")
	keep       = flag.Bool("k", false, "keep (don't delete) input file")
	toStdout   = flag.Bool("c", false, "write to stdout")
	force      = flag.Bool("f", false, "overwrite output")
	verbose    = flag.Bool("v", false, "report the input/output sizes and ratio")
	selftest   = flag.Bool("selftest", false, "run the built-in round-trip corpus and report pass/fail")

	winBits = flag.Int("winbits", int(sqz.DefaultParams().WinBits), "window size, as a power of two")
	mapBits = flag.Int("mapbits", int(sqz.DefaultParams().MapBits), "dictionary slot count, as a power of two")
	lenBits = flag.Int("lenbits", int(sqz.DefaultParams().LenBits), "length alphabet size, as a power of two")

	inPath  string
	inFile  *os.File
	outPath string
	outFile *os.File
)

func params() sqz.Params {
	return sqz.Params{WinBits: uint8(*winBits), MapBits: uint8(*mapBits), LenBits: uint8(*lenBits)}
}

// readAllCounted reads all of r, tee-ing every byte through a running count,
// and returns the bytes together with that count.
func readAllCounted(r *os.File) ([]byte, int64, error) {
	var bb bytes.Buffer
	var cnt countWriter
	tee := dsioutil.TeeByteReader{R: &dsioutil.ByteReader{Reader: r}, W: &cnt}
	_, err := dsioutil.ByteCopyN(&bb, &tee, 1<<62)
	if err != nil && !errors.Is(err, io.EOF) {
		return nil, 0, err
	}
	return bb.Bytes(), cnt.n, nil
}

type countWriter struct{ n int64 }

func (c *countWriter) Write(p []byte) (int, error) {
	c.n += int64(len(p))
	return len(p), nil
}

func doCompress() int {
	src, _, err := readAllCounted(inFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "%s: read: %v\n", inPath, err)
		return 3
	}
	p := params()
	if err := p.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "%s: %v\n", inPath, err)
		return 5
	}
	dst := make([]byte, len(src)+1<<20)
	n, err := sqz.Compress(dst, src, p)
	if err != nil {
		fmt.Fprintf(os.Stderr, "%s: compress: %v\n", inPath, err)
		return 7
	}
	if _, err := outFile.Write(dst[:n]); err != nil {
		fmt.Fprintf(os.Stderr, "%s: write: %v\n", outPath, err)
		return 7
	}
	if *verbose {
		reportRatio(len(src), n)
	}
	return 0
}

func doDecompress() int {
	raw, _, err := readAllCounted(inFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "%s: read: %v\n", inPath, err)
		return 3
	}
	out, err := sqz.Decompress(raw)
	if err != nil {
		fmt.Fprintf(os.Stderr, "%s: decompress: %v\n", inPath, err)
		return 7
	}
	if _, err := outFile.Write(out); err != nil {
		fmt.Fprintf(os.Stderr, "%s: write: %v\n", outPath, err)
		return 7
	}
	if *verbose {
		reportRatio(len(out), len(raw))
	}
	return 0
}

func reportRatio(rawSize, compSize int) {
	rs := gostrconv.FormatPrefix(float64(rawSize), gostrconv.Base1024, 2)
	cs := gostrconv.FormatPrefix(float64(compSize), gostrconv.Base1024, 2)
	ratio := float64(rawSize) / float64(compSize)
	fmt.Fprintf(os.Stderr, "%s: %sB -> %sB (%.2fx)\n", inPath, rs, cs, ratio)
}

func doSelftest() int {
	cases := [][]byte{
		make([]byte, 4<<10), // all-zero
		bytes.Repeat([]byte{0x01, 0x02, 0x03, 0x04}, 1024),
		[]byte("Hello World, this is a test of the sqz codec!!"),
		nil,
	}
	p := sqz.DefaultParams()
	ok := true
	for i, src := range cases {
		dst := make([]byte, len(src)+1<<20)
		n, err := sqz.Compress(dst, src, p)
		if err != nil {
			fmt.Fprintf(os.Stderr, "selftest case %d: compress: %v\n", i, err)
			ok = false
			continue
		}
		got, err := sqz.Decompress(dst[:n])
		if err != nil {
			fmt.Fprintf(os.Stderr, "selftest case %d: decompress: %v\n", i, err)
			ok = false
			continue
		}
		if !bytes.Equal(got, src) {
			fmt.Fprintf(os.Stderr, "selftest case %d: round-trip mismatch\n", i)
			ok = false
			continue
		}
		fmt.Fprintf(os.Stderr, "selftest case %d: ok (%d -> %d bytes)\n", i, len(src), n)
	}
	if ok {
		fmt.Fprintln(os.Stderr, "selftest: PASS")
		return 0
	}
	fmt.Fprintln(os.Stderr, "selftest: FAIL")
	return 1
}

func do() int {
	if len(flag.Args()) > 1 {
		fmt.Fprintf(os.Stderr, "too many arguments\n")
		return 2
	}
	if len(flag.Args()) == 0 {
		inPath = "-"
	} else {
		inPath = flag.Args()[0]
	}

	closeInput, closeOutput := false, false
	var code int
	defer func() {
		if closeInput {
			inFile.Close()
		}
		if closeOutput {
			outFile.Close()
			if code != 0 {
				os.Remove(outPath)
			}
		}
	}()

	var err error
	if inPath == "-" {
		inFile = os.Stdin
	} else {
		if _, err := os.Stat(inPath); errors.Is(err, os.ErrNotExist) {
			fmt.Fprintf(os.Stderr, "%s: %v\n", inPath, err)
			return 1
		}
		inFile, err = os.Open(inPath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "%s: %v\n", inPath, err)
			return 3
		}
		closeInput = true
	}

	if inPath == "-" || *toStdout {
		outPath = "-"
		outFile = os.Stdout
	} else if *decompress {
		if strings.HasSuffix(inPath, extension) {
			outPath = inPath[:len(inPath)-len(extension)]
		} else {
			outPath = inPath + ".out"
		}
	} else {
		outPath = inPath + extension
	}

	if outPath != "-" {
		if _, err := os.Stat(outPath); !*force && err == nil {
			fmt.Fprintf(os.Stderr, "%s: already exists\n", outPath)
			return 11
		}
		outFile, err = os.Create(outPath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "%s: create: %v\n", outPath, err)
			return 4
		}
		closeOutput = true
	}

	if *decompress {
		code = doDecompress()
	} else {
		code = doCompress()
	}

	if closeInput {
		closeInput = false
		inFile.Close()
		if !*keep && !*toStdout && code == 0 {
			if err := os.Remove(inPath); err != nil {
				fmt.Fprintf(os.Stderr, "%s: unlink: %v\n", inPath, err)
				return 2
			}
		}
	}

	return code
}

func main() {
	flag.Parse()
	if *selftest {
		os.Exit(doSelftest())
	}
	os.Exit(do())
}
