package phone

import "strings"

// Carrier is a Liberian mobile network operator.
type Carrier string

const (
	CarrierUnknown  Carrier = ""
	CarrierMTN      Carrier = "MTN"
	CarrierOrange   Carrier = "Orange"
	CarrierLonestar Carrier = "Lonestar Cell"
	CarrierComium   Carrier = "Comium"
)

func (c Carrier) String() string { return string(c) }

// carrierTable is the operator prefix plan, in display order.
var carrierTable = []struct {
	carrier  Carrier
	prefixes []string
}{
	{CarrierMTN, []string{"77", "76", "88"}},
	{CarrierOrange, []string{"86", "87"}},
	{CarrierLonestar, []string{"55", "44", "33"}},
	{CarrierComium, []string{"22"}},
}

// carrierByPrefix is derived from carrierTable at init.
var carrierByPrefix = func() map[string]Carrier {
	m := make(map[string]Carrier)
	for _, row := range carrierTable {
		for _, p := range row.prefixes {
			m[p] = row.carrier
		}
	}
	return m
}()

// GetCarrier returns the operator for raw input, or CarrierUnknown when
// the normalized digits do not start with a known prefix.
func GetCarrier(raw string) Carrier {
	return carrierFor(Normalize(raw))
}

// carrierFor looks up the operator of an already-normalized digit string.
func carrierFor(digits string) Carrier {
	if len(digits) < 2 {
		return CarrierUnknown
	}
	return carrierByPrefix[digits[:2]]
}

// Prefixes returns every valid operator prefix in table order.
func Prefixes() []string {
	var out []string
	for _, row := range carrierTable {
		out = append(out, row.prefixes...)
	}
	return out
}

// CarrierPrefixes returns a copy of the operator prefix plan.
func CarrierPrefixes() map[Carrier][]string {
	m := make(map[Carrier][]string, len(carrierTable))
	for _, row := range carrierTable {
		m[row.carrier] = append([]string(nil), row.prefixes...)
	}
	return m
}

// prefixList is the comma-separated prefix list used in messages.
var prefixList = strings.Join(Prefixes(), ", ")
