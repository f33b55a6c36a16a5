package renderer

// skinnedShaderWGSL is the built-in forward shader for skinned and static
// meshes. Group 0 carries the camera uniform, group 1 the per-model uniform
// and bone matrix palette. Vertices with a zero weight sum bypass skinning,
// which lets static meshes share the pipeline.
const skinnedShaderWGSL = `
struct CameraUniform {
    view_proj: mat4x4<f32>,
    camera_pos: vec3<f32>,
}

struct ModelUniform {
    model: mat4x4<f32>,
    tint: vec4<f32>,
    lit: u32,
    bone_count: u32,
}

@group(0) @binding(0) var<uniform> camera: CameraUniform;
@group(1) @binding(0) var<uniform> model_data: ModelUniform;
@group(1) @binding(1) var<storage, read> bones: array<mat4x4<f32>>;

struct VertexInput {
    @location(0) position: vec3<f32>,
    @location(1) normal: vec3<f32>,
    @location(2) uv: vec2<f32>,
    @location(3) color: vec4<f32>,
    @location(4) bone_indices: vec4<u32>,
    @location(5) bone_weights: vec4<f32>,
}

struct VertexOutput {
    @builtin(position) position: vec4<f32>,
    @location(0) normal: vec3<f32>,
    @location(1) color: vec4<f32>,
}

@vertex
fn vs_main(in: VertexInput) -> VertexOutput {
    var local_pos = vec4<f32>(in.position, 1.0);
    var local_normal = in.normal;

    let weight_sum = in.bone_weights.x + in.bone_weights.y + in.bone_weights.z + in.bone_weights.w;
    if (model_data.bone_count > 0u && weight_sum > 0.0) {
        let skin = in.bone_weights.x * bones[in.bone_indices.x]
            + in.bone_weights.y * bones[in.bone_indices.y]
            + in.bone_weights.z * bones[in.bone_indices.z]
            + in.bone_weights.w * bones[in.bone_indices.w];
        local_pos = skin * vec4<f32>(in.position, 1.0);
        local_normal = (skin * vec4<f32>(in.normal, 0.0)).xyz;
    }

    var out: VertexOutput;
    let world_pos = model_data.model * local_pos;
    out.position = camera.view_proj * world_pos;
    out.normal = normalize((model_data.model * vec4<f32>(local_normal, 0.0)).xyz);
    out.color = in.color * model_data.tint;
    return out;
}

@fragment
fn fs_main(in: VertexOutput) -> @location(0) vec4<f32> {
    if (model_data.lit == 0u) {
        return in.color;
    }
    let light_dir = normalize(vec3<f32>(0.4, 1.0, 0.6));
    let ambient = 0.25;
    let ndl = max(dot(normalize(in.normal), light_dir), 0.0);
    return vec4<f32>(in.color.rgb * (ambient + (1.0 - ambient) * ndl), in.color.a);
}
`
