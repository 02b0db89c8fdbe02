package config

// DXToolsTemplate is the sample written by "dxenv config init". It is YAML
// so it can carry comments; the JSON dxtools.conf used by older tooling is
// read unchanged.
const DXToolsTemplate = `# dxenv engine configuration
# Location: ./dxtools.conf (override with --config or DXENV_CONFIG)

data:
  # Name used with --engine. Must be unique.
  - hostname: landsharkengine

    # Address of the engine API
    ip_address: 10.0.1.10

    # Engine administrator
    username: delphix_admin

    # Literal, ${ENV_VAR}, or ${ENV_VAR:-fallback}
    password: ${DXENV_LANDSHARK_PASSWORD}

    # Alternatively read the password from a file (relative to this file)
    # password_file: ~/.secrets/landshark

    # Engines marked default are used when neither --engine nor --all is given
    default: true

    # use_https: true
    # insecure_skip_verify: true
    # port: 443

    # Login target (DOMAIN for engine administrators, SYSTEM for sysadmin)
    # domain: DOMAIN
`
