// Command soialite transcodes values between the binary, dense JSON and
// readable JSON formats, using a type descriptor loaded from disk.
//
//	soialite --schema user.desc.json --record user.soia:User \
//	    --from binary --to readable < user.bin
package main

import (
	"fmt"
	"io"
	"log"
	"os"

	"github.com/spf13/pflag"

	"github.com/soialite/soialite"
	"github.com/soialite/soialite/codec"
)

var (
	schemaPath = pflag.String("schema", "", "path to a type descriptor JSON file")
	recordID   = pflag.String("record", "", "record id or unambiguous record name")
	fromFormat = pflag.String("from", "", "input format: binary, dense or readable (default: auto-detect)")
	toFormat   = pflag.String("to", "dense", "output format: binary, dense, readable or debug")
	keep       = pflag.Bool("keep-unrecognized", false, "preserve unrecognized fields across the transcoding")
	list       = pflag.Bool("list", false, "list the records of the schema and exit")
)

func main() {
	log.SetFlags(0)
	log.SetPrefix("soialite: ")
	pflag.Parse()

	if *schemaPath == "" {
		log.Fatal("--schema is required")
	}
	schema, err := os.ReadFile(*schemaPath)
	if err != nil {
		log.Fatal(err)
	}

	cfg := codec.Config{}
	if *keep {
		cfg.UnrecognizedFields = codec.KeepUnrecognizedFields
	}
	s := soialite.NewWithConfig(cfg)
	if _, err := s.LoadTypeDescriptor(schema); err != nil {
		log.Fatal(err)
	}

	if *list {
		for _, id := range s.ListRecords() {
			fmt.Println(id)
		}
		return
	}

	if *recordID == "" {
		log.Fatal("--record is required")
	}
	ser, err := s.Serializer(*recordID)
	if err != nil {
		log.Fatal(err)
	}

	input, err := io.ReadAll(os.Stdin)
	if err != nil {
		log.Fatal(err)
	}
	value, err := decode(ser, input)
	if err != nil {
		log.Fatal(err)
	}
	output, err := encode(ser, value)
	if err != nil {
		log.Fatal(err)
	}
	if _, err := os.Stdout.Write(output); err != nil {
		log.Fatal(err)
	}
}

func decode(ser *codec.Serializer, input []byte) (interface{}, error) {
	switch *fromFormat {
	case "":
		return ser.Parse(input)
	case "binary":
		return ser.FromBytes(input)
	case "dense", "readable":
		return ser.FromJSON(input)
	}
	return nil, fmt.Errorf("unknown input format: %q", *fromFormat)
}

func encode(ser *codec.Serializer, value interface{}) ([]byte, error) {
	switch *toFormat {
	case "binary":
		return ser.ToBytes(value)
	case "dense":
		return ser.ToDenseJSON(value)
	case "readable":
		return ser.ToReadableJSON(value)
	case "debug":
		return []byte(ser.ToDebugString(value)), nil
	}
	return nil, fmt.Errorf("unknown output format: %q", *toFormat)
}
