// Defines Config, the parsed contents of the config file, and LoadConfig,
// its parser. The config file's grammar is a sequence of labeled anchors:
// the reader scans forward token-by-token, discarding everything until it
// finds the next anchor, then consumes the token(s) immediately following
// it. This matches the reference program's ifstream-based
// `while (buffer != anchor) fin >> buffer;` reader, including the anchors'
// fixed order (metadata path, quantum, scheduling code, six device cycle
// times, memory size, block size, two device quantities, log destination,
// log path). Memory and block sizes are stored in bytes, converted from
// the file's kbytes/Mbytes/Gbytes with binary (1024) multiples.

package sim

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
)

// SchedulingCode names the scheduling policy read from the config file.
type SchedulingCode string

const (
	SchedFCFS  SchedulingCode = "FCFS-N"
	SchedRR    SchedulingCode = "RR"
	SchedSJF   SchedulingCode = "SJF-N"
	SchedSRTFP SchedulingCode = "SRTF-P"
)

// LogDestination names where the simulated log is delivered.
type LogDestination string

const (
	LogToMonitor LogDestination = "Monitor"
	LogToFile    LogDestination = "File"
	LogToBoth    LogDestination = "Both"
)

// Config holds every value read from the config file, in the units the rest
// of the simulator expects (cycle times as msec-per-cycle multipliers,
// memory sizes in bytes).
type Config struct {
	MetadataPath string

	Scheduler SchedulingCode
	Quantum   int64 // meaningful only when Scheduler == SchedRR; always present in the file regardless

	ProcessorCycleMsec float64
	MonitorCycleMsec   float64
	HardDriveCycleMsec float64
	PrinterCycleMsec   float64
	KeyboardCycleMsec  float64
	MemoryCycleMsec    float64

	MemoryBytes      int64
	MemoryBlockBytes int64

	PrinterCount   int
	HardDriveCount int

	LogTo       LogDestination
	LogFilePath string
}

// DefaultConfig returns the Config used when no config file could be read.
// It carries an empty MetadataPath (so the subsequent metadata open fails
// the same way a genuinely missing metadata file would) and picks FCFS-N.
// ParseConfig itself substitutes no fallback for an unrecognized scheduling
// code; NewSchedulingPolicy panics on one.
func DefaultConfig() *Config {
	return &Config{Scheduler: SchedFCFS, LogTo: LogToMonitor}
}

// LoadConfig opens path and parses it as a config file.
func LoadConfig(path string) (*Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	defer f.Close()
	return ParseConfig(f)
}

// ParseConfig reads the fixed-order anchor grammar of the config file.
func ParseConfig(r io.Reader) (*Config, error) {
	br := bufio.NewReader(r)
	cfg := &Config{}

	if err := expectAnchor(br, "Path:"); err != nil {
		return nil, err
	}
	path, err := nextConfigToken(br)
	if err != nil {
		return nil, fmt.Errorf("config: metadata path: %w", err)
	}
	cfg.MetadataPath = path

	if err := expectAnchor(br, "Number:"); err != nil {
		return nil, err
	}
	quantum, err := nextConfigInt(br)
	if err != nil {
		return nil, fmt.Errorf("config: quantum: %w", err)
	}
	cfg.Quantum = quantum

	if err := expectAnchor(br, "Code:"); err != nil {
		return nil, err
	}
	sched, err := nextConfigToken(br)
	if err != nil {
		return nil, fmt.Errorf("config: scheduling code: %w", err)
	}
	cfg.Scheduler = SchedulingCode(sched)

	cycleFields := []*float64{
		&cfg.ProcessorCycleMsec,
		&cfg.MonitorCycleMsec,
		&cfg.HardDriveCycleMsec,
		&cfg.PrinterCycleMsec,
		&cfg.KeyboardCycleMsec,
		&cfg.MemoryCycleMsec,
	}
	for _, field := range cycleFields {
		if err := expectAnchorSuffix(br, "(msec):"); err != nil {
			return nil, err
		}
		v, err := nextConfigFloat(br)
		if err != nil {
			return nil, fmt.Errorf("config: cycle time: %w", err)
		}
		*field = v
	}

	if err := expectAnchor(br, "memory"); err != nil {
		return nil, err
	}
	memUnitTok, err := nextConfigToken(br)
	if err != nil {
		return nil, fmt.Errorf("config: memory unit: %w", err)
	}
	memVal, err := nextConfigFloat(br)
	if err != nil {
		return nil, fmt.Errorf("config: memory size: %w", err)
	}
	switch strings.TrimSuffix(memUnitTok, ":") {
	case "(kbytes)":
		cfg.MemoryBytes = int64(memVal * 1024)
	case "(Mbytes)":
		cfg.MemoryBytes = int64(memVal * 1024 * 1024)
	case "(Gbytes)":
		cfg.MemoryBytes = int64(memVal * 1024 * 1024 * 1024)
	default:
		return nil, fmt.Errorf("config: unrecognized memory unit %q", memUnitTok)
	}

	if err := expectAnchorSuffix(br, "(kbytes):"); err != nil {
		return nil, err
	}
	blockKb, err := nextConfigFloat(br)
	if err != nil {
		return nil, fmt.Errorf("config: memory block size: %w", err)
	}
	cfg.MemoryBlockBytes = int64(blockKb * 1024)

	if err := expectAnchorSuffix(br, "quantity:"); err != nil {
		return nil, err
	}
	printerCount, err := nextConfigInt(br)
	if err != nil {
		return nil, fmt.Errorf("config: printer quantity: %w", err)
	}
	cfg.PrinterCount = int(printerCount)

	if err := expectAnchorSuffix(br, "quantity:"); err != nil {
		return nil, err
	}
	hdCount, err := nextConfigInt(br)
	if err != nil {
		return nil, fmt.Errorf("config: hard drive quantity: %w", err)
	}
	cfg.HardDriveCount = int(hdCount)

	if err := expectAnchor(br, "to"); err != nil {
		return nil, err
	}
	dest, err := nextConfigToken(br)
	if err != nil {
		return nil, fmt.Errorf("config: log destination: %w", err)
	}
	cfg.LogTo = LogDestination(dest)

	// The trailing log path is read unconditionally, matching the reference
	// reader's own unconditional final `fin >> config.lgf`: it's simply
	// unused at delivery time when LogTo is Monitor-only.
	if err := expectAnchor(br, "Path:"); err != nil {
		return nil, err
	}
	logPath, err := nextConfigToken(br)
	if err != nil {
		return nil, fmt.Errorf("config: log path: %w", err)
	}
	cfg.LogFilePath = logPath

	return cfg, nil
}

// expectAnchor scans forward, discarding tokens, until it finds one equal
// to anchor, matching the reference reader's
// `while (buffer.compare(anchor) != 0) fin >> buffer;` idiom: anchors need
// not be adjacent to the previously consumed field, only present somewhere
// ahead in the stream.
func expectAnchor(r *bufio.Reader, anchor string) error {
	for {
		tok, err := nextConfigToken(r)
		if err != nil {
			return fmt.Errorf("config: expected anchor %q: %w", anchor, err)
		}
		if tok == anchor {
			return nil
		}
	}
}

// expectAnchorSuffix scans forward until a token ending in suffix is found,
// matching the six repeated "<device> (msec):" and "quantity:" anchors
// where the leading device name varies but the suffix is fixed.
func expectAnchorSuffix(r *bufio.Reader, suffix string) error {
	for {
		tok, err := nextConfigToken(r)
		if err != nil {
			return fmt.Errorf("config: expected suffix %q: %w", suffix, err)
		}
		if strings.HasSuffix(tok, suffix) {
			return nil
		}
	}
}

func nextConfigToken(r *bufio.Reader) (string, error) {
	var sb strings.Builder
	seenNonSpace := false
	for {
		ch, _, err := r.ReadRune()
		if err != nil {
			if seenNonSpace {
				return sb.String(), nil
			}
			return "", err
		}
		if ch == ' ' || ch == '\t' || ch == '\n' || ch == '\r' {
			if seenNonSpace {
				return sb.String(), nil
			}
			continue
		}
		seenNonSpace = true
		sb.WriteRune(ch)
	}
}

func nextConfigFloat(r *bufio.Reader) (float64, error) {
	tok, err := nextConfigToken(r)
	if err != nil {
		return 0, err
	}
	return strconv.ParseFloat(tok, 64)
}

func nextConfigInt(r *bufio.Reader) (int64, error) {
	tok, err := nextConfigToken(r)
	if err != nil {
		return 0, err
	}
	return strconv.ParseInt(tok, 10, 64)
}
