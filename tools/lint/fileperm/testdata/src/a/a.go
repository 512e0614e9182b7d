package a

import "os"

const userOnly = 0o600

func writes(data []byte) {
	_ = os.WriteFile("values.yaml", data, 0o600)         // want `use fileutil.ReadWriteUserPermission instead of hardcoded 0o600`
	_ = os.WriteFile("values.yaml", data, 0644)          // want `use fileutil.ReadWriteUserReadOthers instead of hardcoded 0644`
	_ = os.MkdirAll("charts", 0o755)                     // want `use fileutil.ReadWriteExecuteUserReadExecuteOthers instead of hardcoded 0o755`
	_ = os.Chmod("values.yaml", 0o600)                   // want `use fileutil.ReadWriteUserPermission instead of hardcoded 0o600`
	_ = WriteFileAtomic(nil, "values.yaml", data, 0o644) // want `use fileutil.ReadWriteUserReadOthers instead of hardcoded 0o644`

	_ = os.WriteFile("values.yaml", data, userOnly)
	_ = os.WriteFile("values.yaml", data, 0o640)
	_ = os.MkdirAll("charts", os.ModePerm)
}

func WriteFileAtomic(_ interface{}, _ string, _ []byte, _ os.FileMode) error {
	return nil
}
