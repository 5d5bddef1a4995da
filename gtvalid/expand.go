package gtvalid

import (
	"strconv"
	"strings"

	"github.com/grailbio/genotype/encoding/gtsummary"
	"github.com/grailbio/genotype/umi"
	"github.com/pkg/errors"
)

// splitList splits a ListDelimiter-joined cell into exactly n elements.  A
// mismatch means the row is corrupt upstream, so the error names the column
// and barcode and the caller aborts.
func splitList(barcode, column, raw string, n int) ([]string, error) {
	elems := strings.Split(raw, gtsummary.ListDelimiter)
	if len(elems) != n {
		return nil, errors.Errorf("barcode %s: column %s has %d elements, want %d (WT.calls+MUT.calls+amb.calls)",
			barcode, column, len(elems), n)
	}
	return elems, nil
}

func splitIntList(barcode, column, raw string, n int) ([]int, error) {
	elems, err := splitList(barcode, column, raw, n)
	if err != nil {
		return nil, err
	}
	vals := make([]int, n)
	for i, e := range elems {
		v, err := strconv.Atoi(e)
		if err != nil {
			return nil, errors.Wrapf(err, "barcode %s: column %s element %d", barcode, column, i)
		}
		vals[i] = v
	}
	return vals, nil
}

func parseCall(s string) (Call, error) {
	switch strings.ToUpper(s) {
	case "WT":
		return CallWT, nil
	case "MUT":
		return CallMUT, nil
	case "AMB":
		return CallAmb, nil
	}
	return CallAmb, errors.Errorf("unknown genotype call %q", s)
}

// Expand turns each aggregated summary row into one Observation per
// supporting UMI.  A row declares WT.calls+MUT.calls+amb.calls supporting
// molecules; every list-valued column must split into exactly that many
// elements.  Scalar columns replicate across the row's observations.  UMI
// sequences are validated and encoded here; a malformed UMI indicates
// upstream corruption and fails the whole expansion.
func Expand(rows []gtsummary.Row, opts Opts) ([]Observation, error) {
	var observations []Observation
	for rowIdx, row := range rows {
		n := row.WTCalls + row.MUTCalls + row.AmbCalls
		if n <= 0 {
			return nil, errors.Errorf("barcode %s: no declared calls but a non-empty UMI list", row.Barcode)
		}
		umis, err := splitList(row.Barcode, "UMI", row.UMIList, n)
		if err != nil {
			return nil, err
		}
		calls, err := splitList(row.Barcode, "call.in.dups", row.CallList, n)
		if err != nil {
			return nil, err
		}
		numWT, err := splitIntList(row.Barcode, "num.WT.in.dups", row.NumWT, n)
		if err != nil {
			return nil, err
		}
		numMUT, err := splitIntList(row.Barcode, "num.MUT.in.dups", row.NumMUT, n)
		if err != nil {
			return nil, err
		}
		numAmb, err := splitIntList(row.Barcode, "num.amb.in.dups", row.NumAmb, n)
		if err != nil {
			return nil, err
		}
		for i := 0; i < n; i++ {
			if len(umis[i]) != opts.UMILength {
				return nil, errors.Errorf("barcode %s: UMI %q has length %d, want %d",
					row.Barcode, umis[i], len(umis[i]), opts.UMILength)
			}
			code, err := umi.Encode(umis[i])
			if err != nil {
				return nil, errors.Wrapf(err, "barcode %s", row.Barcode)
			}
			call, err := parseCall(calls[i])
			if err != nil {
				return nil, errors.Wrapf(err, "barcode %s", row.Barcode)
			}
			observations = append(observations, Observation{
				RowIdx:         rowIdx,
				Barcode:        row.Barcode,
				UMI:            umis[i],
				UMICode:        code,
				Call:           call,
				DupWT:          numWT[i],
				DupMUT:         numMUT[i],
				DupAmb:         numAmb[i],
				TotalDups:      numWT[i] + numMUT[i] + numAmb[i],
				TotalDupsWTMUT: numWT[i] + numMUT[i],
			})
		}
	}
	return observations, nil
}
