// Package ev defines encoded values: named edge attributes packed into the
// fixed-width flag words of an edge record.
//
// Three kinds are provided:
//
//   - [BooleanEncodedValue]: a single bit, e.g. "car_access"
//   - [DecimalEncodedValue]: an unsigned integer scaled by a factor, e.g. a
//     5-bit "car_speed" with factor 5 covers 0..155 km/h
//   - [EnumEncodedValue]: an index into a fixed list of names, e.g. road class
//
// A value may be direction dependent (TwoDirections), in which case separate
// forward and backward slots are reserved.
//
// A [Manager] assigns every value a slot in a sequence of 32-bit words. A
// value never straddles two words. The number of words determines the size of
// every edge record, so the layout must be fixed before a graph is created:
//
//	access := ev.NewBoolean("car_access", true)
//	speed := ev.NewDecimal("car_speed", 5, 5, true)
//	em, err := ev.NewManager(access, speed, ev.NewRoadClass())
//
// Values read and write through the [Flags] interface, which the graph
// implements on top of its edge records.
package ev
