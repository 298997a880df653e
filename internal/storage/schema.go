/*
 * Copyright (c) 2026 the goscreenwriter authors.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package storage

import (
	_ "embed"
	"errors"
	"fmt"
	"os"
	"strings"

	gojsonschema "github.com/xeipuuv/gojsonschema"
)

//go:embed screenplay.schema.json
var manifestSchema []byte

// ValidateManifest checks the on-disk manifest of the given project against
// the embedded JSON schema. Returns nil when valid; otherwise an error listing
// every schema violation.
func ValidateManifest(ph *ProjectHandle) error {
	if ph == nil {
		return errors.New("nil ProjectHandle")
	}
	data, err := os.ReadFile(ph.ManifestPath)
	if err != nil {
		return fmt.Errorf("read manifest: %w", err)
	}
	return ValidateManifestBytes(data)
}

// ValidateManifestBytes validates raw manifest JSON against the embedded schema.
func ValidateManifestBytes(data []byte) error {
	schemaLoader := gojsonschema.NewBytesLoader(manifestSchema)
	docLoader := gojsonschema.NewBytesLoader(data)

	result, err := gojsonschema.Validate(schemaLoader, docLoader)
	if err != nil {
		return fmt.Errorf("schema validate: %w", err)
	}
	if result.Valid() {
		return nil
	}
	var msgs []string
	for _, e := range result.Errors() {
		msgs = append(msgs, e.String())
	}
	return fmt.Errorf("manifest does not conform to schema: %s", strings.Join(msgs, "; "))
}
