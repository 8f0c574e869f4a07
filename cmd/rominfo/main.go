// Command rominfo prints the header fields and checksum state of ROM
// files. It never modifies them.
package main

import (
	"flag"
	"fmt"
	"hash/crc32"
	"log"
	"os"

	"github.com/DarthMotzkus/fixchecksum-md-sfc/rom"
)

func main() {
	flag.Parse()
	if flag.NArg() == 0 {
		log.Fatal("Usage: rominfo <rom> [<rom> ...]")
	}

	failed := false
	for i, path := range flag.Args() {
		if i > 0 {
			fmt.Println()
		}
		if err := printInfo(path); err != nil {
			log.Printf("%s: %v", path, err)
			failed = true
		}
	}
	if failed {
		os.Exit(1)
	}
}

func printInfo(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}

	res, err := rom.Checksum(data)
	if err != nil {
		return err
	}

	fmt.Printf("%s\n", path)
	fmt.Printf("  Format:    %s\n", res.Format)
	fmt.Printf("  Size:      %d bytes\n", len(data))
	// CRC over the image behind any copier header, matching how ROM
	// databases hash dumps.
	fmt.Printf("  CRC32:     %08X\n", crc32.ChecksumIEEE(data[res.CopierHeader:]))

	if res.Format == rom.FormatUnknown {
		return nil
	}

	if res.CopierHeader > 0 {
		fmt.Printf("  Copier header: %d bytes\n", res.CopierHeader)
	}

	switch {
	case res.Format == rom.FormatGenesis:
		if err := printGenesisHeader(data); err != nil {
			return err
		}
	case res.Format.IsSNES():
		if err := printSNESHeader(data, res.Format); err != nil {
			return err
		}
	}

	state := "OK"
	if res.Changed() {
		state = fmt.Sprintf("MISMATCH (computed %04X)", res.New)
	}
	fmt.Printf("  Checksum:  %04X %s\n", res.Old, state)
	return nil
}

func printGenesisHeader(data []byte) error {
	h, err := rom.ParseGenesisHeader(data)
	if err != nil {
		return err
	}
	fmt.Printf("  System:    %s\n", h.System)
	title := h.OverseasTitle
	if title == "" {
		title = h.DomesticTitle
	}
	fmt.Printf("  Title:     %s\n", title)
	fmt.Printf("  Serial:    %s\n", h.Serial)
	fmt.Printf("  Regions:   %s\n", h.Regions)
	if h.SRAMSize > 0 {
		fmt.Printf("  SRAM:      %d bytes\n", h.SRAMSize)
	}
	return nil
}

func printSNESHeader(data []byte, f rom.Format) error {
	h, err := rom.ParseSNESHeader(data, f)
	if err != nil {
		return err
	}
	fmt.Printf("  Title:     %s\n", h.Title)
	fmt.Printf("  Map mode:  %02X\n", h.MapMode)
	fmt.Printf("  Chipset:   %02X\n", h.Chipset)
	fmt.Printf("  ROM size:  %d KB\n", h.ROMSizeKB)
	if h.RAMSizeKB > 0 {
		fmt.Printf("  RAM size:  %d KB\n", h.RAMSizeKB)
	}
	fmt.Printf("  Region:    %02X\n", h.Region)
	fmt.Printf("  Version:   1.%d\n", h.Version)
	return nil
}
