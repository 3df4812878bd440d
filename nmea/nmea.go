// Package nmea parses NMEA 0183 text sentences into NavigationRecord
// mutations, grounded on pkg/gnssgo/nmea's ParseNMEA/ParseGGA/ParseRMC
// family, generalized into the DirtyMask-returning Parse signature the
// binary protocol packages (evermore, navcom) share.
package nmea

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/perezmeyer/gpsdcore/navdata"
)

// sentence is a split, checksum-verified NMEA sentence.
type sentence struct {
	talkerType string // e.g. "GPGGA"
	fields     []string
}

// parseSentence splits raw (without trailing CRLF) into its type and
// comma-separated fields, verifying the XOR checksum after '*' when
// present. Talker-ID-prefixed types ("GPGGA", "GNRMC", ...) are
// preserved verbatim; dispatch matches on the trailing three letters.
func parseSentence(raw []byte) (*sentence, error) {
	if len(raw) < 6 || (raw[0] != '$' && raw[0] != '!') {
		return nil, fmt.Errorf("nmea: malformed sentence")
	}

	body := raw
	if star := strings.LastIndexByte(string(raw), '*'); star != -1 && star < len(raw)-2 {
		data := raw[1:star]
		want := strings.ToUpper(string(raw[star+1 : star+3]))
		got := fmt.Sprintf("%02X", xorChecksum(data))
		if got != want {
			return nil, fmt.Errorf("nmea: checksum mismatch: got %s want %s", got, want)
		}
		body = raw[:star]
	}

	fields := strings.Split(string(body), ",")
	if len(fields) < 2 {
		return nil, fmt.Errorf("nmea: not enough fields")
	}
	return &sentence{
		talkerType: strings.TrimPrefix(fields[0], "$"),
		fields:     fields[1:],
	}, nil
}

func xorChecksum(data []byte) byte {
	var c byte
	for _, b := range data {
		c ^= b
	}
	return c
}

func sentenceKind(talkerType string) string {
	if len(talkerType) < 3 {
		return ""
	}
	return talkerType[len(talkerType)-3:]
}

// Parse decodes one NMEA sentence (as delivered by the lexer, checksum
// already framed) into rec, returning the DirtyMask of fields it
// touched. An unrecognized sentence type is not an error: it returns a
// zero mask so the auto-detection trigger-string match in driver can
// still run against it.
func Parse(raw []byte, rec *navdata.NavigationRecord, ctx *navdata.Context) (navdata.DirtyMask, error) {
	s, err := parseSentence(raw)
	if err != nil {
		return 0, err
	}
	switch sentenceKind(s.talkerType) {
	case "GGA":
		return parseGGA(s, rec), nil
	case "RMC":
		return parseRMC(s, rec), nil
	case "VTG":
		return parseVTG(s, rec), nil
	case "GSA":
		return parseGSA(s, rec), nil
	case "GSV":
		return parseGSV(s, rec), nil
	default:
		return 0, nil
	}
}

func parseLatLon(value, dir string) (float64, bool) {
	if value == "" {
		return 0, false
	}
	coord, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return 0, false
	}
	deg := float64(int(coord / 100))
	min := coord - deg*100
	result := deg + min/60
	if dir == "S" || dir == "W" {
		result = -result
	}
	return result, true
}

func parseFloatField(f string) (float64, bool) {
	if f == "" {
		return 0, false
	}
	v, err := strconv.ParseFloat(f, 64)
	return v, err == nil
}

func parseIntField(f string) (int, bool) {
	if f == "" {
		return 0, false
	}
	v, err := strconv.Atoi(f)
	return v, err == nil
}
