// Package config loads the parameters of a simulated disk.
//
// Two file formats are supported. Files ending in .yaml or .yml are YAML
// documents whose keys are the yaml tags of Device. Any other file uses the
// legacy format: ten whitespace separated values, in the order
//
//	surfaces tracksPerSurface sectorsInnermost sectorsOutermost rpm
//	sectorSize seekOverhead seekPerTrack cacheBlocks verbose(0/1)
//
// Times are in seconds.
package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/sarchlab/hddsim/disk/hdd"
	"github.com/sarchlab/hddsim/sim"
)

// ErrInvalidConfig is returned when a configuration cannot be parsed or
// describes an impossible disk.
var ErrInvalidConfig = errors.New("config: invalid configuration")

// Device holds the parameters of a disk.
type Device struct {
	Surfaces         uint32  `yaml:"surfaces"`
	TracksPerSurface uint32  `yaml:"tracks_per_surface"`
	SectorsInnermost uint32  `yaml:"sectors_innermost"`
	SectorsOutermost uint32  `yaml:"sectors_outermost"`
	RPM              float64 `yaml:"rpm"`
	SectorSize       uint32  `yaml:"sector_size"`
	SeekOverhead     float64 `yaml:"seek_overhead"`
	SeekPerTrack     float64 `yaml:"seek_per_track"`
	CacheBlocks      int     `yaml:"cache_blocks"`
	CachePolicy      string  `yaml:"cache_policy"`
	Verbose          bool    `yaml:"verbose"`
}

// Default returns the parameters of a small 7200 RPM disk.
func Default() Device {
	return Device{
		Surfaces:         4,
		TracksPerSurface: 1024,
		SectorsInnermost: 256,
		SectorsOutermost: 512,
		RPM:              7200,
		SectorSize:       512,
		SeekOverhead:     0.002,
		SeekPerTrack:     0.000005,
		CacheBlocks:      64,
		CachePolicy:      hdd.CacheRecordOnly.String(),
	}
}

// Load reads a configuration file, picking the format by extension.
func Load(path string) (Device, error) {
	f, err := os.Open(path)
	if err != nil {
		return Device{}, err
	}
	defer f.Close()

	var d Device

	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		d, err = ParseYAML(f)
	default:
		d, err = ParseLegacy(f)
	}

	if err != nil {
		return Device{}, fmt.Errorf("%s: %w", path, err)
	}

	return d, nil
}

// ParseLegacy parses the ten value format. Values after the tenth are
// ignored.
func ParseLegacy(r io.Reader) (Device, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return Device{}, err
	}

	fields := strings.Fields(string(data))
	if len(fields) < 10 {
		return Device{}, fmt.Errorf("%w: want 10 values, got %d",
			ErrInvalidConfig, len(fields))
	}

	p := legacyParser{fields: fields}
	d := Device{
		Surfaces:         p.parseUint32(0, "surfaces"),
		TracksPerSurface: p.parseUint32(1, "tracks per surface"),
		SectorsInnermost: p.parseUint32(2, "sectors innermost"),
		SectorsOutermost: p.parseUint32(3, "sectors outermost"),
		RPM:              p.parseFloat(4, "rpm"),
		SectorSize:       p.parseUint32(5, "sector size"),
		SeekOverhead:     p.parseFloat(6, "seek overhead"),
		SeekPerTrack:     p.parseFloat(7, "seek per track"),
		CacheBlocks:      int(p.parseUint32(8, "cache blocks")),
		CachePolicy:      hdd.CacheRecordOnly.String(),
		Verbose:          p.parseBool(9, "verbose"),
	}

	if p.err != nil {
		return Device{}, p.err
	}

	return d, nil
}

// legacyParser converts fields and keeps the first error.
type legacyParser struct {
	fields []string
	err    error
}

func (p *legacyParser) fail(i int, name string) {
	if p.err == nil {
		p.err = fmt.Errorf("%w: value %d (%s): %q",
			ErrInvalidConfig, i+1, name, p.fields[i])
	}
}

func (p *legacyParser) parseUint32(i int, name string) uint32 {
	v, err := strconv.ParseUint(p.fields[i], 10, 32)
	if err != nil {
		p.fail(i, name)
	}

	return uint32(v)
}

func (p *legacyParser) parseFloat(i int, name string) float64 {
	v, err := strconv.ParseFloat(p.fields[i], 64)
	if err != nil {
		p.fail(i, name)
	}

	return v
}

func (p *legacyParser) parseBool(i int, name string) bool {
	switch p.fields[i] {
	case "0":
		return false
	case "1":
		return true
	default:
		p.fail(i, name)
		return false
	}
}

// ParseYAML parses a YAML configuration. Missing keys keep their default
// values; unknown keys are errors.
func ParseYAML(r io.Reader) (Device, error) {
	d := Default()

	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)

	err := dec.Decode(&d)
	if err != nil && !errors.Is(err, io.EOF) {
		return Device{}, fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}

	return d, nil
}

// Validate checks that the parameters describe a disk that can be built.
func (d Device) Validate() error {
	_, err := d.Builder()
	return err
}

// Builder converts the configuration into a disk builder.
func (d Device) Builder() (hdd.Builder, error) {
	policy, err := hdd.ParseCacheHitPolicy(d.CachePolicy)
	if err != nil {
		return hdd.Builder{}, fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}

	if _, err := hdd.NewGeometry(
		d.Surfaces, d.TracksPerSurface,
		d.SectorsInnermost, d.SectorsOutermost,
		d.SectorSize,
	); err != nil {
		return hdd.Builder{}, fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}

	switch {
	case !(d.RPM > 0):
		return hdd.Builder{}, fmt.Errorf("%w: rpm must be positive, got %v",
			ErrInvalidConfig, d.RPM)
	case d.SeekOverhead < 0 || d.SeekPerTrack < 0:
		return hdd.Builder{}, fmt.Errorf("%w: seek times must not be negative",
			ErrInvalidConfig)
	case d.CacheBlocks < 2:
		return hdd.Builder{}, fmt.Errorf(
			"%w: the cache needs at least 2 blocks, got %d",
			ErrInvalidConfig, d.CacheBlocks)
	}

	b := hdd.MakeBuilder().
		WithSurfaces(d.Surfaces).
		WithTracksPerSurface(d.TracksPerSurface).
		WithSectorsPerTrack(d.SectorsInnermost, d.SectorsOutermost).
		WithRPM(sim.RPM(d.RPM)).
		WithSectorSize(d.SectorSize).
		WithSeekTime(
			sim.VTimeInSec(d.SeekOverhead),
			sim.VTimeInSec(d.SeekPerTrack)).
		WithCacheBlocks(d.CacheBlocks).
		WithCachePolicy(policy).
		WithVerbose(d.Verbose)

	return b, nil
}
