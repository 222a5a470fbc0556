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

// Package dataset loads tab-separated listening data and builds the sparse
// user-artist matrix consumed by the matrix factorization solver.
package dataset

import (
	"bufio"
	"os"
	"sort"
	"strconv"
	"strings"

	"github.com/juju/errors"
	"github.com/tunefm/tunefm/base/log"
	"go.uber.org/zap"
)

// Interaction is a single (user, artist, weight) record. The weight is the
// play count of the artist by the user.
type Interaction struct {
	UserID   int32
	ArtistID int32
	Weight   float32
}

// ReadInteractions reads a tab-separated interaction file with header columns
// userID, artistID and weight. Column order is free and extra columns are
// ignored. A missing header column or a malformed row yields a NotValid
// error. Negative weights are rejected: play counts are non-negative.
func ReadInteractions(path string) ([]Interaction, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, errors.Annotate(err, "open interaction file")
	}
	defer file.Close()
	log.Logger().Info("load interactions", zap.String("path", path))

	scanner := bufio.NewScanner(file)
	if !scanner.Scan() {
		if err := scanner.Err(); err != nil {
			return nil, errors.Trace(err)
		}
		return nil, errors.NotValidf("interaction file %s: missing header", path)
	}
	columns, err := parseHeader(scanner.Text(), "userID", "artistID", "weight")
	if err != nil {
		return nil, errors.Trace(err)
	}

	var interactions []Interaction
	for line := 2; scanner.Scan(); line++ {
		fields := strings.Split(scanner.Text(), "\t")
		userId, err := parseId(fields, columns[0])
		if err != nil {
			return nil, errors.Annotatef(err, "interaction file %s: line %d", path, line)
		}
		artistId, err := parseId(fields, columns[1])
		if err != nil {
			return nil, errors.Annotatef(err, "interaction file %s: line %d", path, line)
		}
		if columns[2] >= len(fields) {
			return nil, errors.NotValidf("interaction file %s: line %d: missing weight", path, line)
		}
		weight, err := strconv.ParseFloat(fields[columns[2]], 32)
		if err != nil {
			return nil, errors.NotValidf("interaction file %s: line %d: weight %q", path, line, fields[columns[2]])
		}
		if weight < 0 {
			return nil, errors.NotValidf("interaction file %s: line %d: negative weight %v", path, line, weight)
		}
		interactions = append(interactions, Interaction{
			UserID:   userId,
			ArtistID: artistId,
			Weight:   float32(weight),
		})
	}
	if err := scanner.Err(); err != nil {
		return nil, errors.Trace(err)
	}
	log.Logger().Info("interactions loaded",
		zap.String("path", path),
		zap.Int("count", len(interactions)))
	return interactions, nil
}

// LoadInteractions reads an interaction file and builds the user-artist
// matrix in a single step.
func LoadInteractions(path string) (*Matrix, error) {
	interactions, err := ReadInteractions(path)
	if err != nil {
		return nil, errors.Trace(err)
	}
	return BuildMatrix(interactions), nil
}

// parseHeader locates the required columns in a tab-separated header line and
// returns their positions, in the order requested.
func parseHeader(header string, required ...string) ([]int, error) {
	fields := strings.Split(header, "\t")
	positions := make([]int, len(required))
	for i, name := range required {
		position := -1
		for j, field := range fields {
			if strings.TrimSpace(field) == name {
				position = j
				break
			}
		}
		if position < 0 {
			return nil, errors.NotValidf("missing column %q", name)
		}
		positions[i] = position
	}
	return positions, nil
}

func parseId(fields []string, column int) (int32, error) {
	if column >= len(fields) {
		return 0, errors.NotValidf("missing field")
	}
	id, err := strconv.ParseInt(fields[column], 10, 32)
	if err != nil {
		return 0, errors.NotValidf("id %q", fields[column])
	}
	if id < 0 {
		return 0, errors.NotValidf("negative id %d", id)
	}
	return int32(id), nil
}

// Matrix is a sparse user-artist matrix. User and artist ids are used
// directly as row and column indices, so the dimensions are
// (max user id + 1, max artist id + 1) and rows or columns for unobserved
// ids are empty. Entries are stored row-wise and column-wise with item and
// user indices sorted ascending.
type Matrix struct {
	userItems   [][]int32
	userWeights [][]float32
	itemUsers   [][]int32
	itemWeights [][]float32
	numNonZero  int
}

// BuildMatrix constructs the sparse matrix from interaction records. Weights
// pass through unmodified. When the same (user, artist) pair appears more
// than once, the last value wins.
func BuildMatrix(interactions []Interaction) *Matrix {
	var numUsers, numItems int32
	entries := make(map[int64]float32, len(interactions))
	for _, interaction := range interactions {
		if interaction.UserID+1 > numUsers {
			numUsers = interaction.UserID + 1
		}
		if interaction.ArtistID+1 > numItems {
			numItems = interaction.ArtistID + 1
		}
		entries[int64(interaction.UserID)<<32|int64(interaction.ArtistID)] = interaction.Weight
	}
	m := &Matrix{
		userItems:   make([][]int32, numUsers),
		userWeights: make([][]float32, numUsers),
		itemUsers:   make([][]int32, numItems),
		itemWeights: make([][]float32, numItems),
		numNonZero:  len(entries),
	}
	for key := range entries {
		userIndex := int32(key >> 32)
		m.userItems[userIndex] = append(m.userItems[userIndex], int32(key))
	}
	for userIndex, items := range m.userItems {
		sort.Slice(items, func(i, j int) bool { return items[i] < items[j] })
		m.userWeights[userIndex] = make([]float32, len(items))
		for i, itemIndex := range items {
			weight := entries[int64(userIndex)<<32|int64(itemIndex)]
			m.userWeights[userIndex][i] = weight
			m.itemUsers[itemIndex] = append(m.itemUsers[itemIndex], int32(userIndex))
			m.itemWeights[itemIndex] = append(m.itemWeights[itemIndex], weight)
		}
	}
	log.Logger().Info("matrix built",
		zap.Int32("users", numUsers),
		zap.Int32("artists", numItems),
		zap.Int("non_zeros", len(entries)))
	return m
}

// CountUsers returns the number of rows.
func (m *Matrix) CountUsers() int {
	return len(m.userItems)
}

// CountItems returns the number of columns.
func (m *Matrix) CountItems() int {
	return len(m.itemUsers)
}

// NonZeros returns the number of stored entries.
func (m *Matrix) NonZeros() int {
	return m.numNonZero
}

// UserItems returns the column indices of stored entries in a row, ascending.
func (m *Matrix) UserItems(userIndex int32) []int32 {
	return m.userItems[userIndex]
}

// UserWeights returns the weights of stored entries in a row, aligned with
// UserItems.
func (m *Matrix) UserWeights(userIndex int32) []float32 {
	return m.userWeights[userIndex]
}

// ItemUsers returns the row indices of stored entries in a column, ascending.
func (m *Matrix) ItemUsers(itemIndex int32) []int32 {
	return m.itemUsers[itemIndex]
}

// ItemWeights returns the weights of stored entries in a column, aligned with
// ItemUsers.
func (m *Matrix) ItemWeights(itemIndex int32) []float32 {
	return m.itemWeights[itemIndex]
}
