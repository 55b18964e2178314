// Package compiler turns tileset documents into generator rules.
//
// A tileset is authored in CUE or YAML with the same schema:
//
//	name: "coast"
//	dimensions: 2
//	sockets: ["sea", "shore", "land"]
//	connections: [
//		{from: "sea", to: ["sea", "shore"]},
//		{from: "land", to: ["land", "shore"]},
//	]
//	models: [
//		{name: "water", symbol: "~", weight: 2,
//		 sockets: {x_pos: ["sea"], x_neg: ["sea"], y_pos: ["sea"], y_neg: ["sea"]}},
//	]
//
// The pipeline is Load (decode + NFC normalization), Validate (collects every
// ValidationError) and Compile (builds *rules.Rules). Decoding errors from
// CUE carry source positions as *CompileError.
package compiler
