package main

import (
	"encoding/hex"
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/k0kubun/pp/v3"
	"github.com/ptolstoi/gw2datserver/gw2dat"
	"github.com/ptolstoi/gw2datserver/internal/fourcc"
)

const dumpSize = 128

func main() {
	entry := flag.Int("entry", -1, "fetch and describe the entry at this MFT position")
	fileID := flag.Uint("file", 0, "fetch the entry holding this file id")
	dump := flag.Bool("hex", false, "hex dump the first bytes of the fetched entry")
	flag.Usage = func() {
		fmt.Fprintf(flag.CommandLine.Output(), "usage: %s [-entry N | -file ID] [-hex] <archive>.dat\n", os.Args[0])
		flag.PrintDefaults()
	}
	flag.Parse()

	if flag.NArg() != 1 {
		flag.Usage()
		os.Exit(2)
	}
	path := flag.Arg(0)

	archive, err := gw2dat.Open(path)
	if err != nil {
		log.Fatalf("Error loading %v: %v", path, err)
	}

	pp.Println(&archive.Header)
	pp.Println(&archive.MFTHeader)
	fmt.Printf("MFT entries: %d\n", archive.NumEntries())
	fmt.Printf("Index slots: %d\n", len(archive.Index))
	fmt.Printf("Index conflicts: %d\n", len(archive.Conflicts))

	index := *entry
	if *fileID != 0 {
		var ok bool
		index, ok = archive.EntryForFileID(uint32(*fileID))
		if !ok {
			log.Fatalf("file id %v not in index", *fileID)
		}
	}
	if index < 0 {
		return
	}

	mftEntry, err := archive.Entry(index)
	if err != nil {
		log.Fatalf("Error: %v", err)
	}
	ids, err := archive.FileIDs(index)
	if err != nil {
		log.Fatalf("Error: %v", err)
	}
	data, err := archive.Fetch(path, index)
	if err != nil {
		log.Fatalf("Error fetching entry %v: %v", index, err)
	}

	fileType := fourcc.Unknown
	if !mftEntry.Compressed() {
		fileType = fourcc.Detect(data)
	}

	fmt.Printf("\nEntry %d\n", index)
	pp.Println(&mftEntry)
	fmt.Printf("File ids: base=%d file=%d\n", ids.BaseID, ids.FileID)
	fmt.Printf("Size: %d bytes, compressed: %v, type: %v, texture: %v\n", len(data), mftEntry.Compressed(), fileType, fileType.IsTexture())

	if *dump {
		n := len(data)
		if n > dumpSize {
			n = dumpSize
		}
		fmt.Printf("First %d bytes:\n%s", n, hex.Dump(data[:n]))
	}
}
