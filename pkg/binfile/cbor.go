// Copyright Consensys Software Inc.
//
// Licensed under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with
// the License. You may obtain a copy of the License at
//
// http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on
// an "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied. See the License for the
// specific language governing permissions and limitations under the License.
//
// SPDX-License-Identifier: Apache-2.0
package binfile

import (
	"fmt"

	"github.com/consensys/go-stackvm/pkg/vm"
	"github.com/fxamacker/cbor/v2"
)

// BinaryFile is the on-disk representation of a program in the binary format.
type BinaryFile struct {
	// Major version of the format.
	Version uint16 `cbor:"version"`
	// Flat cell encoding of the program.
	Cells []int64 `cbor:"cells"`
}

// Canonical encoding ensures identical programs give identical bytes.
var cborEncMode cbor.EncMode

func init() {
	em, err := cbor.CanonicalEncOptions().EncMode()
	if err != nil {
		panic(fmt.Sprintf("binfile: failed to create CBOR enc mode: %v", err))
	}
	//
	cborEncMode = em
}

// MarshalCbor encodes a program in the binary format.
func MarshalCbor(program vm.Program) ([]byte, error) {
	cells := make([]int64, len(program))
	copy(cells, program)
	//
	return cborEncMode.Marshal(&BinaryFile{BINFILE_MAJOR_VERSION, cells})
}

// UnmarshalCbor decodes a program in the binary format.
func UnmarshalCbor(data []byte) (vm.Program, error) {
	var binf BinaryFile
	//
	if err := cbor.Unmarshal(data, &binf); err != nil {
		return nil, fmt.Errorf("binfile: unmarshal program: %w", err)
	} else if binf.Version != BINFILE_MAJOR_VERSION {
		return nil, fmt.Errorf("binfile: incompatible version %d (expected %d)", binf.Version, BINFILE_MAJOR_VERSION)
	}
	//
	return vm.Program(binf.Cells), nil
}
