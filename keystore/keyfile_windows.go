//go:build windows

// Copyright 2025 Amaru Labs
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

package keystore

import (
	"fmt"
	"os"
	"strings"
)

// Environment variable to bypass Windows ACL checks.
// Set AMARU_ALLOW_INSECURE_KEY_PERMS=true to skip permission verification
// after manually verifying the key file ACLs are properly restricted.
const envAllowInsecureKeyPerms = "AMARU_ALLOW_INSECURE_KEY_PERMS"

// checkOpenFilePermissions on Windows fails closed: Unix permission bits
// do not map onto NTFS ACLs, and proper ACL verification is not
// implemented. Set AMARU_ALLOW_INSECURE_KEY_PERMS=true to bypass.
func checkOpenFilePermissions(f *os.File) error {
	if allow := os.Getenv(envAllowInsecureKeyPerms); strings.EqualFold(allow, "true") {
		return nil
	}
	return fmt.Errorf(
		"%w: Windows ACL verification not implemented; "+
			"set %s=true to bypass after manually verifying file permissions",
		ErrInsecureFileMode,
		envAllowInsecureKeyPerms,
	)
}
