// Copyright 2025 go-qgemm Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package qgemm

// Dispatched entry points. init() wires the portable Base implementations;
// architecture-specific builds may override these with hand-tuned variants
// in their own init() as long as the packed-layout contract in pack.go is
// preserved: packing and kernel must always come from the same family.

// PackA packs a panel of A and computes row sums. See BasePackA.
var PackA func(dst, src []uint8, lda, countM, countK int, rowSums []int32)

// PackB packs a panel of B and computes column sums. See BasePackB.
var PackB func(dst, src []uint8, ldb, countN, countK int, colSums []int32, signedB bool)

// Kernel computes one row tile from packed operands and reports the rows
// handled. See BaseKernel.
var Kernel func(packedA, packedB []uint8, c []int32, packedCountK, countM, countN, ldc int, rowSums, colSums []int32, depthValue int32, zeroMode bool) int

func init() {
	PackA = BasePackA
	PackB = BasePackB
	Kernel = BaseKernel
}
