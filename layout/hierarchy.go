package layout

import "github.com/timzifer/ebos/catalog"

// Hierarchy returns the electrical chain from module to substation implied
// by an entry.
func Hierarchy(entry catalog.Entry) []string {
	chain := []string{"MODULE", "STRING"}
	switch entry.DCCollection {
	case catalog.CollectionHarnesses:
		chain = append(chain, "HARNESS")
	case catalog.CollectionTrunkBus:
		chain = append(chain, "TRUNK BUS")
	}
	switch entry.DCCombination {
	case catalog.CombinationCombiner:
		chain = append(chain, "COMBINER")
	case catalog.CombinationLBD:
		chain = append(chain, "LBD")
	}
	switch entry.Inverter {
	case catalog.InverterDistributed:
		chain = append(chain, "STR INV")
	case catalog.InverterCluster:
		chain = append(chain, "CLUST INV")
	default:
		chain = append(chain, "CENT INV")
	}
	return append(chain, "MV XFMR", "MV COLL", "SUBSTATION")
}
