// Copyright 2026 tunefm Project Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
// http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package dataset

import (
	"bufio"
	"os"
	"strings"

	"github.com/juju/errors"
	"github.com/tunefm/tunefm/base/log"
	"go.uber.org/zap"
)

// ArtistIndex resolves artist ids to display names. Lookups use exact id
// equality only.
type ArtistIndex struct {
	names map[int32]string
}

// LoadArtists reads a tab-separated artist file with header columns id and
// name. Column order is free and extra columns (such as artist page urls) are
// ignored. A missing header column or a malformed row yields a NotValid
// error. Duplicate ids keep the last name.
func LoadArtists(path string) (*ArtistIndex, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, errors.Annotate(err, "open artist file")
	}
	defer file.Close()
	log.Logger().Info("load artists", zap.String("path", path))

	scanner := bufio.NewScanner(file)
	if !scanner.Scan() {
		if err := scanner.Err(); err != nil {
			return nil, errors.Trace(err)
		}
		return nil, errors.NotValidf("artist file %s: missing header", path)
	}
	columns, err := parseHeader(scanner.Text(), "id", "name")
	if err != nil {
		return nil, errors.Trace(err)
	}

	index := &ArtistIndex{names: make(map[int32]string)}
	for line := 2; scanner.Scan(); line++ {
		fields := strings.Split(scanner.Text(), "\t")
		artistId, err := parseId(fields, columns[0])
		if err != nil {
			return nil, errors.Annotatef(err, "artist file %s: line %d", path, line)
		}
		if columns[1] >= len(fields) {
			return nil, errors.NotValidf("artist file %s: line %d: missing name", path, line)
		}
		index.names[artistId] = fields[columns[1]]
	}
	if err := scanner.Err(); err != nil {
		return nil, errors.Trace(err)
	}
	log.Logger().Info("artists loaded",
		zap.String("path", path),
		zap.Int("count", len(index.names)))
	return index, nil
}

// Name returns the name of an artist. An id absent from the table yields a
// NotFound error, never a silent default.
func (index *ArtistIndex) Name(artistId int32) (string, error) {
	name, ok := index.names[artistId]
	if !ok {
		return "", errors.NotFoundf("artist %d", artistId)
	}
	return name, nil
}

// Count returns the number of artists in the index.
func (index *ArtistIndex) Count() int {
	return len(index.names)
}
