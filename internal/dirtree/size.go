package dirtree

import (
	"fmt"
	"strings"

	"github.com/dustin/go-humanize"
)

// DiskUsage selects which byte count of a file is reported.
type DiskUsage uint8

const (
	// Logical reports the apparent length of files.
	Logical DiskUsage = iota
	// Physical reports the blocks allocated on disk.
	Physical
)

func (u DiskUsage) String() string {
	if u == Physical {
		return "physical"
	}

	return "logical"
}

// ParseDiskUsage parses "logical" or "physical".
func ParseDiskUsage(s string) (DiskUsage, error) {
	switch strings.ToLower(s) {
	case "logical", "":
		return Logical, nil
	case "physical":
		return Physical, nil
	default:
		return Logical, fmt.Errorf("unknown disk usage %q: must be logical or physical", s)
	}
}

// Prefix selects the unit family used when formatting sizes.
type Prefix uint8

const (
	// Binary uses powers of 1024 (KiB, MiB, ...).
	Binary Prefix = iota
	// SI uses powers of 1000 (KB, MB, ...).
	SI
)

func (p Prefix) String() string {
	if p == SI {
		return "si"
	}

	return "bin"
}

// ParsePrefix parses "bin" or "si".
func ParsePrefix(s string) (Prefix, error) {
	switch strings.ToLower(s) {
	case "bin", "binary", "":
		return Binary, nil
	case "si":
		return SI, nil
	default:
		return Binary, fmt.Errorf("unknown unit %q: must be bin or si", s)
	}
}

// SizePolicy is carried alongside every Size. It is taken from configuration, never computed.
type SizePolicy struct {
	Usage  DiskUsage
	Prefix Prefix
	// Scale is the number of decimal places printed for scaled units.
	Scale int
}

// Size is a byte count paired with the policy used to display it.
type Size struct {
	Bytes  uint64
	Policy SizePolicy
}

// NewSize creates a Size.
func NewSize(bytes uint64, policy SizePolicy) Size {
	return Size{Bytes: bytes, Policy: policy}
}

// Add accumulates bytes into the size.
func (s *Size) Add(bytes uint64) {
	s.Bytes += bytes
}

type unit struct {
	factor uint64
	suffix string
}

//nolint:gochecknoglobals // Unit tables
var (
	binaryUnits = []unit{
		{humanize.EiByte, "EiB"},
		{humanize.PiByte, "PiB"},
		{humanize.TiByte, "TiB"},
		{humanize.GiByte, "GiB"},
		{humanize.MiByte, "MiB"},
		{humanize.KiByte, "KiB"},
	}
	siUnits = []unit{
		{humanize.EByte, "EB"},
		{humanize.PByte, "PB"},
		{humanize.TByte, "TB"},
		{humanize.GByte, "GB"},
		{humanize.MByte, "MB"},
		{humanize.KByte, "KB"},
	}
)

// Format renders the size in the largest unit not exceeding it.
func (s Size) Format() string {
	units := binaryUnits
	if s.Policy.Prefix == SI {
		units = siUnits
	}

	for _, u := range units {
		if s.Bytes >= u.factor {
			value := float64(s.Bytes) / float64(u.factor)

			return fmt.Sprintf("%.*f %s", max(s.Policy.Scale, 0), value, u.suffix)
		}
	}

	return fmt.Sprintf("%d B", s.Bytes)
}

func (s Size) String() string {
	return s.Format()
}
