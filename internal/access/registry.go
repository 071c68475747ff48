package access

import (
	"encoding/csv"
	"io"
	"strings"

	"github.com/jszwec/csvutil"
	"github.com/rotisserie/eris"

	"github.com/carolinafaccin/climate-justice-index-v2/internal/dataset"
)

// DefaultServiceFlags are the CNES service-availability columns that make up
// the capacity score. Column names stay as published by the registry.
var DefaultServiceFlags = []string{
	"st_centro_cirurgico",
	"st_centro_obstetrico",
	"st_centro_neonatal",
	"st_atend_hospitalar",
	"st_servico_apoio",
	"st_atend_ambulatorial",
}

type facilityRecord struct {
	ID  string `csv:"co_cnes"`
	Lat string `csv:"nu_latitude"`
	Lng string `csv:"nu_longitude"`
}

// ReadFacilities loads the facility registry. Facilities with missing or
// unparseable coordinates are dropped before spatial indexing rather than
// treated as zero-capacity points at the origin. Capacity is the number of
// service flags set plus a baseline of one.
func ReadFacilities(path string, serviceFlags []string) ([]Facility, error) {
	if len(serviceFlags) == 0 {
		serviceFlags = DefaultServiceFlags
	}

	r, err := dataset.Open(path)
	if err != nil {
		return nil, err
	}

	cr := csv.NewReader(r)
	cr.Comma = ';'
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true

	rawHeader, err := cr.Read()
	if err != nil {
		return nil, eris.Wrapf(err, "access: read facility header from %s", path)
	}
	header := make([]string, len(rawHeader))
	flagIdx := make([]int, 0, len(serviceFlags))
	for i, h := range rawHeader {
		header[i] = strings.ToLower(strings.TrimSpace(h))
	}
	for _, flag := range serviceFlags {
		for i, h := range header {
			if h == flag {
				flagIdx = append(flagIdx, i)
				break
			}
		}
	}

	dec, err := csvutil.NewDecoder(cr, header...)
	if err != nil {
		return nil, eris.Wrapf(err, "access: decode facility registry %s", path)
	}

	var facilities []Facility
	for {
		var rec facilityRecord
		if err := dec.Decode(&rec); err == io.EOF {
			break
		} else if err != nil {
			return nil, eris.Wrapf(err, "access: parse facility registry %s", path)
		}

		lat, okLat := dataset.ParseCoord(rec.Lat)
		lng, okLng := dataset.ParseCoord(rec.Lng)
		if !okLat || !okLng {
			continue
		}

		capacity := 1.0
		row := dec.Record()
		for _, i := range flagIdx {
			if i < len(row) {
				capacity += dataset.ParseNumber(row[i])
			}
		}

		facilities = append(facilities, Facility{ID: rec.ID, Lat: lat, Lng: lng, Capacity: capacity})
	}
	return facilities, nil
}
