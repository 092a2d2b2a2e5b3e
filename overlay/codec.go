// Copyright (C) 2020-2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package overlay

import "fmt"

// wireCodecName names the encoding.Codec that replaces grpc's default
// proto.Message codec on every connection and server this package
// creates. Message and Empty are hand-rolled protowire types, not
// generated proto.Message implementations, so the default codec would
// reject them outright.
const wireCodecName = "ddpoa-wire"

// wireCodec is installed with grpc.ForceCodec (client) and
// grpc.ForceServerCodec (server), which bypass grpc's encoding.Codec
// registry and its insistence on proto.Message entirely.
type wireCodec struct{}

func (wireCodec) Marshal(v interface{}) ([]byte, error) {
	switch m := v.(type) {
	case *Message:
		return m.Marshal(), nil
	case Message:
		return m.Marshal(), nil
	case *Empty:
		return nil, nil
	case Empty:
		return nil, nil
	default:
		return nil, fmt.Errorf("overlay: codec cannot marshal %T", v)
	}
}

func (wireCodec) Unmarshal(data []byte, v interface{}) error {
	switch m := v.(type) {
	case *Message:
		decoded, err := Unmarshal(data)
		if err != nil {
			return err
		}
		*m = decoded
		return nil
	case *Empty:
		return nil
	default:
		return fmt.Errorf("overlay: codec cannot unmarshal into %T", v)
	}
}

func (wireCodec) Name() string { return wireCodecName }
