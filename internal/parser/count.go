package parser

// CountEffectiveRecords parses the file at path and counts the statements and
// queries that are effective under label. The count only sizes progress bars.
func CountEffectiveRecords(path, label string) (int64, error) {
	records, err := Parse(path)
	if err != nil {
		return 0, err
	}
	return CountEffective(records, label), nil
}

// CountEffective counts the executable records effective under label
func CountEffective(records []Record, label string) int64 {
	var count int64
	for i := range records {
		rec := &records[i]
		if rec.IsExecutable() && rec.EffectiveUnder(label) {
			count++
		}
	}
	return count
}
